package validate

import (
	"github.com/tgienger/todo/internal/models"
)

const (
	msgTitleRequired    = "Title is required"
	msgTitleEmpty       = "Title cannot be empty"
	msgTitleTooLong     = "Title must be less than 256 characters"
	msgDescTooLong      = "Description must be less than 1001 characters"
	msgCompletedNotBool = "Completion status must be a boolean value"
)

// ValidateTaskCreation checks a creation payload and reports every violation
func ValidateTaskCreation(data models.TaskCreate) Result {
	var errs []string

	switch {
	case blank(data.Title):
		errs = append(errs, msgTitleRequired)
	case length(data.Title) > MaxTitleLength:
		errs = append(errs, msgTitleTooLong)
	}

	if data.Description != nil && length(*data.Description) > MaxDescriptionLength {
		errs = append(errs, msgDescTooLong)
	}

	return newResult(errs)
}

// ValidateTaskUpdate applies the creation rules to whichever fields are present
func ValidateTaskUpdate(data models.TaskUpdate) Result {
	var errs []string

	if data.Title != nil {
		switch {
		case blank(*data.Title):
			errs = append(errs, msgTitleEmpty)
		case length(*data.Title) > MaxTitleLength:
			errs = append(errs, msgTitleTooLong)
		}
	}

	if data.Description != nil && length(*data.Description) > MaxDescriptionLength {
		errs = append(errs, msgDescTooLong)
	}

	return newResult(errs)
}

// ValidateTaskFields checks loosely typed task input, such as a decoded JSON
// object, where field types are not guaranteed. Title is required when
// requireTitle is set (creation), optional otherwise (update).
func ValidateTaskFields(fields map[string]any, requireTitle bool) Result {
	var errs []string

	title, hasTitle := fields["title"]
	switch {
	case !hasTitle || title == nil:
		if requireTitle {
			errs = append(errs, msgTitleRequired)
		}
	default:
		s, ok := title.(string)
		switch {
		case !ok:
			errs = append(errs, "Title must be a string")
		case blank(s) && requireTitle:
			errs = append(errs, msgTitleRequired)
		case blank(s):
			errs = append(errs, msgTitleEmpty)
		case length(s) > MaxTitleLength:
			errs = append(errs, msgTitleTooLong)
		}
	}

	if desc, ok := fields["description"]; ok && desc != nil {
		s, isString := desc.(string)
		switch {
		case !isString:
			errs = append(errs, "Description must be a string")
		case length(s) > MaxDescriptionLength:
			errs = append(errs, msgDescTooLong)
		}
	}

	if completed, ok := fields["completed"]; ok {
		if _, isBool := completed.(bool); !isBool {
			errs = append(errs, msgCompletedNotBool)
		}
	}

	return newResult(errs)
}
