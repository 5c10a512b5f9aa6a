package plan

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"
)

// Template is the ordered set of step categories a profile archetype
// follows, split into morning, evening and a weekly deep-care slot.
// Templates are selected, never computed.
type Template struct {
	ID      string         `yaml:"id"`
	Morning []StepCategory `yaml:"morning"`
	Evening []StepCategory `yaml:"evening"`
	Weekly  []StepCategory `yaml:"weekly"`

	// Selectors. An empty list matches anything.
	SkinTypes   []string     `yaml:"skin_types"`
	Goals       []string     `yaml:"goals"`
	Sensitivity []string     `yaml:"sensitivity"`
	Complexity  []Complexity `yaml:"complexity"`
}

//go:embed templates.yaml
var templatesYAML []byte

var templateCatalog []Template

func init() {
	catalog, err := loadTemplates(templatesYAML)
	if err != nil {
		panic(fmt.Sprintf("plan: invalid embedded template catalog: %v", err))
	}
	templateCatalog = catalog
}

func loadTemplates(raw []byte) ([]Template, error) {
	var doc struct {
		Templates []Template `yaml:"templates"`
	}
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	if len(doc.Templates) == 0 {
		return nil, fmt.Errorf("template catalog is empty")
	}
	for _, tpl := range doc.Templates {
		for _, c := range append(append(append([]StepCategory{}, tpl.Morning...), tpl.Evening...), tpl.Weekly...) {
			if _, ok := baseStepTable[c]; !ok {
				return nil, fmt.Errorf("template %q references unknown step category %q", tpl.ID, c)
			}
		}
	}
	last := doc.Templates[len(doc.Templates)-1]
	if len(last.SkinTypes) != 0 || len(last.Goals) != 0 || len(last.Sensitivity) != 0 || len(last.Complexity) != 0 {
		return nil, fmt.Errorf("last template %q must be the unconditional default", last.ID)
	}
	return doc.Templates, nil
}

// SelectTemplate maps a classification onto the template catalog: the
// first template whose selectors all match wins. Deterministic and
// side-effect free; the catalog always ends with an unconditional
// default, so selection cannot fail.
func SelectTemplate(skinType string, mainGoals []string, sensitivity string, complexity Complexity) Template {
	for _, tpl := range templateCatalog {
		if tpl.matches(skinType, mainGoals, sensitivity, complexity) {
			return tpl
		}
	}
	// Unreachable: loadTemplates enforces the trailing default.
	return templateCatalog[len(templateCatalog)-1]
}

func (t Template) matches(skinType string, mainGoals []string, sensitivity string, complexity Complexity) bool {
	if len(t.SkinTypes) > 0 && !containsString(t.SkinTypes, skinType) {
		return false
	}
	if len(t.Goals) > 0 && !intersects(t.Goals, mainGoals) {
		return false
	}
	if len(t.Sensitivity) > 0 && !containsString(t.Sensitivity, sensitivity) {
		return false
	}
	if len(t.Complexity) > 0 && !containsComplexity(t.Complexity, complexity) {
		return false
	}
	return true
}

func containsString(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}

func containsComplexity(list []Complexity, v Complexity) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}

func intersects(a, b []string) bool {
	for _, x := range a {
		for _, y := range b {
			if x == y {
				return true
			}
		}
	}
	return false
}
