package util

import (
	"fmt"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

// DefaultKeepRegionLanguages lists languages whose folder name keeps the region.
var DefaultKeepRegionLanguages = []string{"zh"}

func parseLocale(locale string) (language.Tag, error) {
	locale = strings.TrimSpace(locale)
	if locale == "" {
		return language.Und, fmt.Errorf("empty locale")
	}
	tag, err := language.Parse(strings.ReplaceAll(locale, "_", "-"))
	if err != nil {
		return language.Und, fmt.Errorf("invalid locale %q: %w", locale, err)
	}
	return tag, nil
}

// NormalizeLocaleFolder maps a locale to the canonical folder name used for
// localized output. Most languages drop script and region ("es-MX" -> "es");
// languages listed in keepRegion retain a region, which is inferred from a
// script subtag when missing ("zh-Hant" -> "zh-TW"). A nil keepRegion uses
// DefaultKeepRegionLanguages.
func NormalizeLocaleFolder(locale string, keepRegion []string) (string, error) {
	tag, err := parseLocale(locale)
	if err != nil {
		return "", err
	}
	if keepRegion == nil {
		keepRegion = DefaultKeepRegionLanguages
	}
	base, _ := tag.Base()
	for _, lang := range keepRegion {
		if !strings.EqualFold(lang, base.String()) {
			continue
		}
		region, conf := tag.Region()
		if conf == language.No {
			return base.String(), nil
		}
		return base.String() + "-" + region.String(), nil
	}
	return base.String(), nil
}

// GetPrettyLocaleName shows full language name and location
func GetPrettyLocaleName(locale string) (string, error) {
	tag, err := parseLocale(locale)
	if err != nil {
		return "", err
	}
	base, conf := tag.Base()
	if conf == language.No {
		return "", fmt.Errorf("invalid language code for locale \"%s\"", locale)
	}
	langName := display.English.Languages().Name(base)
	if langName == "" {
		return "", fmt.Errorf("invalid language code for locale \"%s\"", locale)
	}
	if region, conf := tag.Region(); conf == language.Exact {
		if locName := display.English.Regions().Name(region); locName != "" {
			return fmt.Sprintf("%s - %s", langName, locName), nil
		}
	}
	return langName, nil
}
