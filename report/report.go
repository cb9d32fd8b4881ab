// Package report renders analysis and adaptation results as markdown.
package report

import (
	"embed"
	"fmt"
	"io"
	"strings"
	"text/template"

	"github.com/Masterminds/sprig"
	"github.com/vsariola/mensura"
	"github.com/vsariola/mensura/adapt"
	"github.com/vsariola/mensura/analyzer"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

//go:embed templates/*
var templateFS embed.FS

// Reporter holds the parsed report templates.
type Reporter struct {
	Template *template.Template
}

var caser = cases.Title(language.English)

// DisplayName turns a slug such as "mechanical_organ" into "Mechanical Organ".
func DisplayName(v any) string {
	return caser.String(strings.ReplaceAll(fmt.Sprint(v), "_", " "))
}

// New returns a reporter using the built-in templates.
func New() (*Reporter, error) {
	tmpl, err := template.New("base").Funcs(sprig.TxtFuncMap()).Funcs(template.FuncMap{"display": DisplayName}).ParseFS(templateFS, "templates/*")
	if err != nil {
		return nil, fmt.Errorf(`could not create templates: %v`, err)
	}
	return &Reporter{Template: tmpl}, nil
}

// WriteAnalysis writes the analysis of a score.
func (r *Reporter) WriteAnalysis(w io.Writer, score *mensura.Score, a analyzer.Analysis) error {
	data := struct {
		Score    *mensura.Score
		Analysis analyzer.Analysis
	}{score, a}
	if err := r.Template.ExecuteTemplate(w, "analysis.md", data); err != nil {
		return fmt.Errorf("could not write analysis report: %w", err)
	}
	return nil
}

// WriteAdaptation writes the outcome of an adaptation run, including the
// suggestions of a failed run.
func (r *Reporter) WriteAdaptation(w io.Writer, res *adapt.Result) error {
	if err := r.Template.ExecuteTemplate(w, "adaptation.md", res); err != nil {
		return fmt.Errorf("could not write adaptation report: %w", err)
	}
	return nil
}
