package models

import (
	"encoding/base64"
	"fmt"
	"strings"
	"unicode"
)

// ValidationError represents a validation error for a specific field
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code"`
}

// ValidationErrors collects every problem found in a descriptor
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	parts := make([]string, 0, len(e))
	for _, ve := range e {
		parts = append(parts, fmt.Sprintf("%s: %s", ve.Field, ve.Message))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Validate checks the mode tag and, when present, the png payload
func (b *Box) Validate() error {
	var errs ValidationErrors

	if _, _, err := ParseMode(b.Mode); err != nil {
		errs = append(errs, ValidationError{
			Field:   "mode",
			Message: err.Error(),
			Code:    "invalid_mode",
		})
	}

	if png, ok := b.Data["png"]; ok && !isValidBase64Image(png) {
		errs = append(errs, ValidationError{
			Field:   "data.png",
			Message: "png payload must be non-empty base64",
			Code:    "invalid_base64",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// Validate checks the plugin name and every script resource
func (p *Plugin) Validate() error {
	var errs ValidationErrors

	if !isValidPluginName(p.Name) {
		errs = append(errs, ValidationError{
			Field:   "name",
			Message: fmt.Sprintf("plugin name %q must be non-empty without '.', ':' or spaces", p.Name),
			Code:    "invalid_name",
		})
	}

	if len(p.Scripts) == 0 {
		errs = append(errs, ValidationError{
			Field:   "scripts",
			Message: "plugin must bundle at least one script",
			Code:    "required",
		})
	}

	for i, s := range p.Scripts {
		field := fmt.Sprintf("scripts[%d]", i)
		if !s.Type.Valid() {
			errs = append(errs, ValidationError{
				Field:   field + ".type",
				Message: fmt.Sprintf("unknown script type %q", s.Type),
				Code:    "invalid_option",
			})
			continue
		}
		if strings.TrimSpace(s.Source) == "" {
			errs = append(errs, ValidationError{
				Field:   field + ".source",
				Message: fmt.Sprintf("%s script requires a source", s.Type),
				Code:    "required",
			})
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

func isValidPluginName(name string) bool {
	if name == "" {
		return false
	}
	for _, r := range name {
		if r == '.' || r == ':' || unicode.IsSpace(r) {
			return false
		}
	}
	return true
}

func isValidBase64Image(data string) bool {
	clean := sanitizeBase64Payload(data)
	if clean == "" {
		return false
	}
	_, err := base64.StdEncoding.DecodeString(clean)
	return err == nil
}

func sanitizeBase64Payload(data string) string {
	trimmed := strings.TrimSpace(data)
	if strings.HasPrefix(trimmed, "data:") {
		if idx := strings.Index(trimmed, ","); idx >= 0 {
			trimmed = trimmed[idx+1:]
		}
	}
	trimmed = strings.ReplaceAll(trimmed, "\n", "")
	trimmed = strings.ReplaceAll(trimmed, "\r", "")
	return trimmed
}
