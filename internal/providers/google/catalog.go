package google

import "ttsgateway/internal/tts/inter"

// The supported subset of Google's voice inventory is fixed; listing needs
// no round trip.
func voiceCatalog() []inter.VoiceInfo {
	return []inter.VoiceInfo{
		googleVoice("en-US-Neural2-A", "Neural2 A", inter.GenderFemale),
		googleVoice("en-US-Neural2-C", "Neural2 C", inter.GenderFemale),
		googleVoice("en-US-Neural2-D", "Neural2 D", inter.GenderMale),
		googleVoice("en-US-Wavenet-A", "Wavenet A", inter.GenderMale),
	}
}

func languageCatalog() []inter.LanguageInfo {
	return []inter.LanguageInfo{
		{Code: "en-US", Name: "English (US)", NativeName: "English", VoiceCount: 4},
	}
}

func googleVoice(id, name string, gender inter.VoiceGender) inter.VoiceInfo {
	description := "Female voice"
	if gender == inter.GenderMale {
		description = "Male voice"
	}
	return inter.VoiceInfo{
		ID:                  id,
		Name:                name,
		Language:            "en-US",
		AdditionalLanguages: []string{},
		Gender:              gender,
		Quality:             inter.QualityNeural,
		Description:         description,
		Provider:            providerName,
		SampleRate:          24000,
		UseCases:            []string{"general"},
	}
}
