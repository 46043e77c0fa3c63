package polly

import "ttsgateway/internal/tts/inter"

const providerName = "AWS Polly"

// Polly's voice listing API needs no round trip for the supported subset;
// the catalog is fixed per region.
func voiceCatalog() []inter.VoiceInfo {
	return []inter.VoiceInfo{
		usVoice("Joanna", inter.GenderFemale, "US English female voice", "general", "assistant"),
		usVoice("Matthew", inter.GenderMale, "US English male voice", "general", "professional"),
		usVoice("Ivy", inter.GenderFemale, "US English child's voice", "conversational"),
		usVoice("Kendra", inter.GenderFemale, "US English female voice", "general"),
		usVoice("Kevin", inter.GenderMale, "US English child's voice", "conversational"),
		usVoice("Salli", inter.GenderFemale, "US English female voice", "general"),
		usVoice("Joey", inter.GenderMale, "US English male voice", "general"),
		gbVoice("Amy", inter.GenderFemale, "British English female voice", "general"),
		gbVoice("Brian", inter.GenderMale, "British English male voice", "general"),
		gbVoice("Emma", inter.GenderFemale, "British English female voice", "general", "news"),
	}
}

func languageCatalog() []inter.LanguageInfo {
	return []inter.LanguageInfo{
		{Code: "en-US", Name: "English (US)", NativeName: "English (US)", VoiceCount: 7},
		{Code: "en-GB", Name: "English (UK)", NativeName: "English (UK)", VoiceCount: 3},
	}
}

func usVoice(id string, gender inter.VoiceGender, description string, useCases ...string) inter.VoiceInfo {
	return pollyVoice(id, "en-US", gender, description, useCases)
}

func gbVoice(id string, gender inter.VoiceGender, description string, useCases ...string) inter.VoiceInfo {
	return pollyVoice(id, "en-GB", gender, description, useCases)
}

func pollyVoice(id, language string, gender inter.VoiceGender, description string, useCases []string) inter.VoiceInfo {
	return inter.VoiceInfo{
		ID:                  id,
		Name:                id,
		Language:            language,
		AdditionalLanguages: []string{},
		Gender:              gender,
		Quality:             inter.QualityNeural,
		Description:         description,
		Provider:            providerName,
		SampleRate:          24000,
		UseCases:            useCases,
	}
}
