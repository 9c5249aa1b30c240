package editor

import (
	"errors"

	"github.com/aasedek/Analytica-AI-Product-1/internal/app/dto"
)

// Variant selects the toast styling
type Variant string

const (
	VariantDefault     Variant = "default"
	VariantDestructive Variant = "destructive"
)

// Notification is a transient user-facing message
type Notification struct {
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Variant     Variant `json:"variant"`
}

// ExportSucceeded is shown after the pipeline was downloaded
func ExportSucceeded() Notification {
	return Notification{Title: "Export Successful", Description: "Your pipeline has been downloaded.", Variant: VariantDefault}
}

// ImportSucceeded is shown after a file replaced the pipeline
func ImportSucceeded() Notification {
	return Notification{Title: "Import Successful", Description: "Pipeline loaded from file.", Variant: VariantDefault}
}

// ImportFailed is shown when a file was rejected
func ImportFailed() Notification {
	return Notification{
		Title:       "Import Failed",
		Description: "The selected file is not a valid pipeline configuration.",
		Variant:     VariantDestructive,
	}
}

// NotificationFor maps a user-visible error to its toast
func NotificationFor(err error) Notification {
	switch {
	case errors.Is(err, dto.ErrImportFormatInvalid):
		return ImportFailed()
	case errors.Is(err, dto.ErrMissingBackendURL):
		return Notification{Title: "Execution Unavailable", Description: "No pipeline backend is configured.", Variant: VariantDestructive}
	case errors.Is(err, ErrOptimizerUnavailable):
		return Notification{Title: "Optimization Unavailable", Description: "No AI optimizer is configured.", Variant: VariantDestructive}
	case errors.Is(err, dto.ErrRemoteCallFailed):
		return Notification{Title: "Request Failed", Description: err.Error(), Variant: VariantDestructive}
	default:
		return Notification{Title: "Something went wrong", Description: err.Error(), Variant: VariantDestructive}
	}
}
