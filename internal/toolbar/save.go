package toolbar

import (
	"fmt"
	"time"
)

// SavePreference is produced fresh by a PreferenceSource for every save.
// Optional flags are pointers so that an omitted value can be told apart from
// an explicit false.
type SavePreference struct {
	Folder          string
	Filename        string
	Transparent     *bool
	ImageType       ImageType
	IncludeImage    *bool
	IncludeText     *bool
	CropToImageSize *bool
	CopyToGallery   *bool
}

// PreferenceSource supplies save preferences on demand.
type PreferenceSource func() (SavePreference, error)

// SaveCommand is the fully resolved parameter set handed to Canvas.Save.
type SaveCommand struct {
	ImageType       ImageType
	Transparent     bool
	Folder          string
	Filename        string
	IncludeImage    bool
	IncludeText     bool
	CropToImageSize bool
	CopyToGallery   bool
}

// Bool returns a pointer to b, for building SavePreference literals.
func Bool(b bool) *bool { return &b }

// DefaultFilename formats t as "YYYY-M-DD HH-MM-SS": the month is not padded,
// everything after it is.
func DefaultFilename(t time.Time) string {
	return fmt.Sprintf("%d-%d-%02d %02d-%02d-%02d",
		t.Year(), int(t.Month()), t.Day(), t.Hour(), t.Minute(), t.Second())
}

// SaveResolver turns an optional preference source into a SaveCommand.
type SaveResolver struct {
	Source PreferenceSource
	// Folder is used when no source is configured.
	Folder string
	Now    func() time.Time
}

// Resolve builds the command for one save. It performs no I/O.
func (r SaveResolver) Resolve() (SaveCommand, error) {
	if r.Source == nil {
		now := time.Now
		if r.Now != nil {
			now = r.Now
		}
		return SaveCommand{
			ImageType:       ImagePNG,
			Transparent:     false,
			Folder:          r.Folder,
			Filename:        DefaultFilename(now()),
			IncludeImage:    true,
			IncludeText:     true,
			CropToImageSize: false,
			CopyToGallery:   false,
		}, nil
	}
	p, err := r.Source()
	if err != nil {
		return SaveCommand{}, fmt.Errorf("save preference: %w", err)
	}
	if p.ImageType == "" {
		return SaveCommand{}, &InvalidPreferenceError{Field: "imageType"}
	}
	if p.Transparent == nil {
		return SaveCommand{}, &InvalidPreferenceError{Field: "transparent"}
	}
	return SaveCommand{
		ImageType:       p.ImageType,
		Transparent:     *p.Transparent,
		Folder:          p.Folder,
		Filename:        p.Filename,
		IncludeImage:    p.IncludeImage == nil || *p.IncludeImage,
		IncludeText:     p.IncludeText == nil || *p.IncludeText,
		CropToImageSize: p.CropToImageSize != nil && *p.CropToImageSize,
		CopyToGallery:   p.CopyToGallery != nil && *p.CopyToGallery,
	}, nil
}
