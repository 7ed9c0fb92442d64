package services

import (
	"strings"
	"sync"

	"github.com/pemistahl/lingua-go"
	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
	"github.com/spf13/viper"
)

const UnknownLanguage = "unknown"

var (
	languageDetector     lingua.LanguageDetector
	languageDetectorOnce sync.Once
)

var defaultDetectLanguages = []lingua.Language{
	lingua.English,
	lingua.Russian,
	lingua.Chinese,
	lingua.Japanese,
	lingua.German,
	lingua.French,
	lingua.Spanish,
}

func getLanguageDetector() lingua.LanguageDetector {
	languageDetectorOnce.Do(func() {
		codes := lo.Map(viper.GetStringSlice("posts.languages"), func(item string, _ int) string {
			return strings.ToLower(item)
		})
		languages := lo.Filter(lingua.AllLanguages(), func(item lingua.Language, _ int) bool {
			return lo.Contains(codes, strings.ToLower(item.IsoCode639_1().String()))
		})
		if len(languages) < 2 {
			languages = defaultDetectLanguages
		}

		log.Debug().Int("languages", len(languages)).Msg("Building language detector...")
		languageDetector = lingua.NewLanguageDetectorBuilder().
			FromLanguages(languages...).
			WithLowAccuracyMode().
			Build()
	})
	return languageDetector
}

// DetectLanguage returns the lowercase ISO 639-1 code of the text.
func DetectLanguage(content string) string {
	if len(strings.TrimSpace(content)) == 0 {
		return UnknownLanguage
	}

	if language, ok := getLanguageDetector().DetectLanguageOf(content); ok {
		return strings.ToLower(language.IsoCode639_1().String())
	}
	return UnknownLanguage
}
