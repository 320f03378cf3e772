package script

import "strings"

// Style selects the tone of the generated routine.
type Style string

const (
	StyleObservational   Style = "observational"
	StyleSarcastic       Style = "sarcastic"
	StyleAbsurdist       Style = "absurdist"
	StyleSelfDeprecating Style = "self-deprecating"
	StyleTopical         Style = "topical"
)

const (
	personaPrompt    = "You are a brilliant comedy writer."
	engagementPrompt = "Make it engaging, funny, and suitable for a stand-up routine."
	cleanPrompt      = "Do not include any stage directions, audience reactions, or non-spoken elements (like 'laughter' or 'pauses'). Write the script as if it's being delivered directly to the audience."

	userPromptIntro   = "Here are my random thoughts:\n\n"
	userPromptClosing = "\n\nTurn this into a hilarious comedy script as requested. Go wild with it!"
)

var stylePrompts = map[Style]string{
	StyleObservational:   "Create a hilarious observational comedy script based on these thoughts. Focus on everyday situations and make them funny.",
	StyleSarcastic:       "Generate a sarcastic and witty comedy script using these thoughts. Don't hold back on the sass!",
	StyleAbsurdist:       "Craft an absurdist comedy script that takes these thoughts to ridiculous and unexpected places. The weirder, the better!",
	StyleSelfDeprecating: "Write a self-deprecating comedy script that pokes fun at the person having these thoughts. Make it relatable and endearing.",
	StyleTopical:         "Develop a topical comedy script that relates these thoughts to current events or pop culture. Keep it fresh and relevant!",
}

// Styles lists the supported styles in display order.
func Styles() []Style {
	return []Style{StyleObservational, StyleSarcastic, StyleAbsurdist, StyleSelfDeprecating, StyleTopical}
}

// IsValidStyle reports whether s names one of the supported styles.
func IsValidStyle(s string) bool {
	_, ok := stylePrompts[Style(s)]
	return ok
}

// StyleNames returns the style names as plain strings, for flags and help text.
func StyleNames() []string {
	names := make([]string, 0, len(stylePrompts))
	for _, s := range Styles() {
		names = append(names, string(s))
	}
	return names
}

// StylePrompt returns the instruction sentence for style. Unknown styles get
// the observational sentence.
func StylePrompt(style Style) string {
	if p, ok := stylePrompts[style]; ok {
		return p
	}
	return stylePrompts[StyleObservational]
}

// Prompt is the instruction pair sent to a text-generation backend.
type Prompt struct {
	System string
	User   string
}

// BuildPrompt assembles the system and user messages for one run. thoughts is
// embedded verbatim.
func BuildPrompt(thoughts string, style Style, clean bool) Prompt {
	parts := []string{personaPrompt, StylePrompt(style), engagementPrompt}
	if clean {
		parts = append(parts, cleanPrompt)
	}
	return Prompt{
		System: strings.Join(parts, " "),
		User:   userPromptIntro + thoughts + userPromptClosing,
	}
}
