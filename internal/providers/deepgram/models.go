package deepgram

import (
	"fmt"
	"strings"

	"ttsgateway/internal/tts/inter"
)

const providerName = "Deepgram"

// Model describes one Aura voice model. The catalog is fixed; Deepgram has
// no voice listing endpoint for Aura.
type Model struct {
	Name            string
	VoiceID         string
	Language        string
	Accent          string
	Gender          string
	Age             string
	Characteristics []string
	UseCases        []string
}

func modelCatalog() []Model {
	return []Model{
		{
			Name: "Aura Asteria", VoiceID: "aura-asteria-en",
			Language: "en", Accent: "American", Gender: "Female", Age: "Adult",
			Characteristics: []string{"warm", "professional"},
			UseCases:        []string{"general", "narration"},
		},
		{
			Name: "Aura Luna", VoiceID: "aura-luna-en",
			Language: "en", Accent: "American", Gender: "Female", Age: "Young Adult",
			Characteristics: []string{"friendly", "conversational"},
			UseCases:        []string{"general", "chat"},
		},
		{
			Name: "Aura Stella", VoiceID: "aura-stella-en",
			Language: "en", Accent: "American", Gender: "Female", Age: "Adult",
			Characteristics: []string{"clear", "articulate"},
			UseCases:        []string{"presentation", "professional"},
		},
		{
			Name: "Aura Athena", VoiceID: "aura-athena-en",
			Language: "en", Accent: "British", Gender: "Female", Age: "Adult",
			Characteristics: []string{"elegant", "sophisticated"},
			UseCases:        []string{"narration", "presentation"},
		},
		{
			Name: "Aura Hera", VoiceID: "aura-hera-en",
			Language: "en", Accent: "American", Gender: "Female", Age: "Adult",
			Characteristics: []string{"warm", "empathetic"},
			UseCases:        []string{"customer service", "assistant"},
		},
		{
			Name: "Aura Orion", VoiceID: "aura-orion-en",
			Language: "en", Accent: "American", Gender: "Male", Age: "Adult",
			Characteristics: []string{"confident", "professional"},
			UseCases:        []string{"presentation", "narration"},
		},
		{
			Name: "Aura Arcas", VoiceID: "aura-arcas-en",
			Language: "en", Accent: "American", Gender: "Male", Age: "Middle Aged",
			Characteristics: []string{"authoritative", "clear"},
			UseCases:        []string{"news", "announcements"},
		},
		{
			Name: "Aura Perseus", VoiceID: "aura-perseus-en",
			Language: "en", Accent: "American", Gender: "Male", Age: "Adult",
			Characteristics: []string{"dynamic", "engaging"},
			UseCases:        []string{"podcast", "entertainment"},
		},
		{
			Name: "Aura Angus", VoiceID: "aura-angus-en",
			Language: "en", Accent: "Irish", Gender: "Male", Age: "Young Adult",
			Characteristics: []string{"friendly", "warm"},
			UseCases:        []string{"conversational", "casual"},
		},
	}
}

func (m Model) toVoiceInfo() inter.VoiceInfo {
	return inter.VoiceInfo{
		ID:                  m.VoiceID,
		Name:                m.Name,
		Language:            normalizeLanguageCode(m.Language),
		AdditionalLanguages: []string{},
		Gender:              parseGender(m.Gender),
		Quality:             inferQuality(m.VoiceID),
		Description: fmt.Sprintf(
			"%s voice with %s accent, %s. Characteristics: %s. Suitable for: %s",
			m.Gender, m.Accent, m.Age,
			strings.Join(m.Characteristics, ", "),
			strings.Join(m.UseCases, ", ")),
		Provider:   providerName,
		SampleRate: 24000,
		UseCases:   m.UseCases,
	}
}

func languageCatalog() []inter.LanguageInfo {
	return []inter.LanguageInfo{
		{Code: "en", Name: "English", NativeName: "English", VoiceCount: uint32(len(modelCatalog()))},
	}
}
