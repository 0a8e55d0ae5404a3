package render

import "github.com/gdamore/tcell/v2"

// ColorTheme defines application colors.
type ColorTheme struct {
	HeaderBg        tcell.Color
	HeaderFg        tcell.Color
	SidebarFg       tcell.Color
	SectionFg       tcell.Color
	HiddenFg        tcell.Color
	ActiveBg        tcell.Color
	ActiveFg        tcell.Color
	InactiveBg      tcell.Color
	SelectedFg      tcell.Color
	MatchFg         tcell.Color
	DirectoryFg     tcell.Color
	SymlinkFg       tcell.Color
	SentinelFg      tcell.Color
	CutFg           tcell.Color
	FooterBg        tcell.Color
	FooterFg        tcell.Color
	ErrorFg         tcell.Color
	PromptBg        tcell.Color
	PromptFg        tcell.Color
	GutterFg        tcell.Color
	MetadataLabelFg tcell.Color
	SeparatorFg     tcell.Color
}

// GetColorTheme returns the default color scheme.
func GetColorTheme() ColorTheme {
	return ColorTheme{
		HeaderBg:        tcell.ColorDefault,
		HeaderFg:        tcell.ColorDefault,
		SidebarFg:       tcell.ColorDefault,
		SectionFg:       tcell.ColorLightSlateGray,
		HiddenFg:        tcell.ColorLightSlateGray,
		ActiveBg:        tcell.Color33,
		ActiveFg:        tcell.ColorWhite,
		InactiveBg:      tcell.Color238, // cursor of a pane without focus
		SelectedFg:      tcell.Color214,
		MatchFg:         tcell.Color220,
		DirectoryFg:     tcell.Color33,
		SymlinkFg:       tcell.Color51,
		SentinelFg:      tcell.ColorLightSlateGray,
		CutFg:           tcell.Color167,
		FooterBg:        tcell.ColorDefault,
		FooterFg:        tcell.ColorDefault,
		ErrorFg:         tcell.ColorRed,
		PromptBg:        tcell.Color214,
		PromptFg:        tcell.ColorBlack,
		GutterFg:        tcell.Color242,
		MetadataLabelFg: tcell.ColorLightSlateGray,
		SeparatorFg:     tcell.Color238,
	}
}
