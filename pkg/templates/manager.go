package templates

import (
	"bytes"
	"embed"
	"fmt"
	"io/fs"
	"text/template"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/selivandex/stockspan/pkg/logger"
	"github.com/selivandex/stockspan/pkg/models"
)

//go:embed messages/*.tmpl
var builtin embed.FS

// Renderer interface for template rendering (for dependency injection)
type Renderer interface {
	ExecuteTemplate(name string, data any) (string, error)
	TemplateExists(name string) bool
}

// Manager manages message templates
type Manager struct {
	templates *template.Template
}

// GetDefaultFuncMap returns common template helper functions
func GetDefaultFuncMap() template.FuncMap {
	return template.FuncMap{
		"money": func(v float64) string {
			return "$" + decimal.NewFromFloat(v).StringFixed(2)
		},
		"fixed": func(places int32, v float64) string {
			return decimal.NewFromFloat(v).StringFixed(places)
		},
		"date": func(t time.Time) string {
			return t.Format(models.DateLayout)
		},
		"stamp": func(t time.Time) string {
			return t.UTC().Format("2006-01-02 15:04 MST")
		},
		"gt": func(a, b float64) bool { return a > b },
		"lt": func(a, b float64) bool { return a < b },
	}
}

// NewManager parses every *.tmpl file in fsys and checks that required ones exist
func NewManager(fsys fs.FS, required ...string) (*Manager, error) {
	tmpl, err := template.New("root").Funcs(GetDefaultFuncMap()).ParseFS(fsys, "*.tmpl")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}

	for _, name := range required {
		if tmpl.Lookup(name) == nil {
			return nil, fmt.Errorf("required template not found: %s", name)
		}
	}

	logger.Debug("templates loaded", zap.Int("count", len(tmpl.Templates())))

	return &Manager{templates: tmpl}, nil
}

// NewDefaultManager loads the built-in message templates
func NewDefaultManager() (*Manager, error) {
	sub, err := fs.Sub(builtin, "messages")
	if err != nil {
		return nil, fmt.Errorf("failed to open built-in templates: %w", err)
	}
	return NewManager(sub, "welcome.tmpl", "help.tmpl", "summary.tmpl")
}

// ExecuteTemplate renders template with data
func (m *Manager) ExecuteTemplate(name string, data any) (string, error) {
	tmpl := m.templates.Lookup(name)
	if tmpl == nil {
		return "", fmt.Errorf("template %s not found", name)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute template %s: %w", name, err)
	}

	return buf.String(), nil
}

// TemplateExists checks if template exists
func (m *Manager) TemplateExists(name string) bool {
	return m.templates.Lookup(name) != nil
}
