// Package emailtemplate provides CRUD operations and rendering for
// event-bound email templates.
package emailtemplate

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"gorm.io/gorm"

	"github.com/GoMedusa-Admin/GoMedusa-Admin/internal/db/models"
)

var (
	// ErrTemplateNotFound is returned when a template is not found.
	ErrTemplateNotFound = errors.New("email template not found")
	// ErrNameEmpty is returned when the template name is empty.
	ErrNameEmpty = errors.New("template name cannot be empty")
	// ErrEventNameEmpty is returned when the event name is empty.
	ErrEventNameEmpty = errors.New("template event name cannot be empty")
	// ErrDBNil is returned when the database connection is nil.
	ErrDBNil = errors.New("database connection is nil")
)

// variablePattern matches {{ path.to.value }} placeholders.
var variablePattern = regexp.MustCompile(`\{\{([^}]+)\}\}`)

// Rendered is the outcome of substituting variables into a template.
type Rendered struct {
	Subject string `json:"subject"`
	HTML    string `json:"html"`
}

// Get retrieves a template by ID.
func Get(db *gorm.DB, id uint) (*models.EmailTemplate, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var tpl models.EmailTemplate
	result := db.First(&tpl, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrTemplateNotFound
		}
		return nil, result.Error
	}

	return &tpl, nil
}

// GetAll retrieves all templates ordered by name.
func GetAll(db *gorm.DB) ([]models.EmailTemplate, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var templates []models.EmailTemplate
	if err := db.Order("name ASC").Find(&templates).Error; err != nil {
		return nil, err
	}

	return templates, nil
}

// FindByEvent retrieves the first active template bound to an event.
// Returns nil when none is configured.
func FindByEvent(db *gorm.DB, eventName string) (*models.EmailTemplate, error) {
	if db == nil {
		return nil, ErrDBNil
	}
	if eventName == "" {
		return nil, ErrEventNameEmpty
	}

	var tpl models.EmailTemplate
	result := db.Where("event_name = ? AND is_active = ?", eventName, true).First(&tpl)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, result.Error
	}

	return &tpl, nil
}

// Create adds a new template.
func Create(db *gorm.DB, tpl *models.EmailTemplate) (*models.EmailTemplate, error) {
	if db == nil {
		return nil, ErrDBNil
	}
	if tpl.Name == "" {
		return nil, ErrNameEmpty
	}
	if tpl.EventName == "" {
		return nil, ErrEventNameEmpty
	}

	if err := db.Create(tpl).Error; err != nil {
		return nil, err
	}

	return tpl, nil
}

// Update modifies an existing template.
func Update(db *gorm.DB, id uint, fields *models.EmailTemplate) (*models.EmailTemplate, error) {
	tpl, err := Get(db, id)
	if err != nil {
		return nil, err
	}

	if fields.Name != "" {
		tpl.Name = fields.Name
	}

	if fields.Subject != "" {
		tpl.Subject = fields.Subject
	}

	if fields.EventName != "" {
		tpl.EventName = fields.EventName
	}

	if fields.HTMLContent != "" {
		tpl.HTMLContent = fields.HTMLContent
	}

	tpl.Description = fields.Description
	tpl.Variables = fields.Variables
	tpl.IsActive = fields.IsActive

	if err := db.Save(tpl).Error; err != nil {
		return nil, err
	}

	return tpl, nil
}

// Delete removes a template.
func Delete(db *gorm.DB, id uint) error {
	tpl, err := Get(db, id)
	if err != nil {
		return err
	}

	return db.Delete(tpl).Error
}

// Render substitutes {{path.to.value}} placeholders in the template's
// subject and body with values from vars. Unknown paths are left verbatim so
// a misconfigured template stays visibly misconfigured instead of rendering
// an empty hole.
func Render(db *gorm.DB, id uint, vars map[string]any) (*Rendered, error) {
	tpl, err := Get(db, id)
	if err != nil {
		return nil, err
	}

	return &Rendered{
		Subject: substitute(tpl.Subject, vars),
		HTML:    substitute(tpl.HTMLContent, vars),
	}, nil
}

func substitute(text string, vars map[string]any) string {
	return variablePattern.ReplaceAllStringFunc(text, func(match string) string {
		path := strings.TrimSpace(match[2 : len(match)-2])

		var value any = vars

		for _, key := range strings.Split(path, ".") {
			m, ok := value.(map[string]any)
			if !ok {
				return match
			}

			value, ok = m[key]
			if !ok {
				return match
			}
		}

		if value == nil {
			return ""
		}

		return fmt.Sprint(value)
	})
}
