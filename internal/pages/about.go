package pages

// AboutInfo describes the generator and the tools it relied on.
type AboutInfo struct {
	Version      string
	Tools        []string
	Contributors []string
}

// AboutPage credits the generator.
type AboutPage struct {
	Common
	AboutInfo
}

// About builds the about page.
func (a *Assembler) About(info AboutInfo) AboutPage {
	return AboutPage{Common: a.settings.common(TitleAbout), AboutInfo: info}
}
