package domain

import (
	"bytes"
	"encoding/json"
	"strings"
)

// ImageData is the provider's image record as it travels over the wire,
// both from the provider to the backend and from the backend to clients.
// Slices are not omitempty: null means "absent", [] means empty.
//
// A record decoded from JSON keeps the exact bytes it was decoded from, and
// encodes back to them, so fields the struct does not model reach clients
// unchanged.
type ImageData struct {
	ID           string   `json:"_id,omitempty"`
	ImageStatus  int      `json:"image_status,omitempty"`
	Image        string   `json:"image,omitempty"`
	ExternalImg  string   `json:"external_img,omitempty"`
	UpscaledURLs []string `json:"upscaled_urls"`
	Buttons      []string `json:"buttons"`
	UsedButtons  []string `json:"used_buttons"`
	SourceImage  string   `json:"source_image,omitempty"`
	Prompt       string   `json:"prompt,omitempty"`
	OriginPrompt string   `json:"origin_prompt,omitempty"`
	Scale        string   `json:"scale,omitempty"`
	CreatedAt    int64    `json:"create_time,omitempty"`

	raw json.RawMessage
}

type imageDataFields ImageData

// UnmarshalJSON decodes the known fields and retains the original object.
func (d *ImageData) UnmarshalJSON(b []byte) error {
	if bytes.Equal(bytes.TrimSpace(b), []byte("null")) {
		return nil
	}
	var f imageDataFields
	if err := json.Unmarshal(b, &f); err != nil {
		return err
	}
	*d = ImageData(f)
	d.raw = append(json.RawMessage(nil), b...)
	return nil
}

// MarshalJSON writes the retained original object, or the known fields for a
// record built in code.
func (d ImageData) MarshalJSON() ([]byte, error) {
	if len(d.raw) > 0 {
		return d.raw, nil
	}
	f := imageDataFields(d)
	return json.Marshal(f)
}

// Raw returns the JSON the record was decoded from, if any.
func (d ImageData) Raw() json.RawMessage {
	return d.raw
}

// Snapshot converts the record into a StatusSnapshot.
func (d ImageData) Snapshot() StatusSnapshot {
	primary := strings.TrimSpace(d.Image)
	if primary == "" {
		primary = strings.TrimSpace(d.ExternalImg)
	}
	return StatusSnapshot{
		ID:            d.ID,
		Status:        JobStatus(d.ImageStatus),
		PrimaryImage:  primary,
		DerivedImages: d.UpscaledURLs,
		Actions:       toActionCodes(d.Buttons),
		UsedActions:   toActionCodes(d.UsedButtons),
		SourceImage:   d.SourceImage,
		Prompt:        d.Prompt,
		OriginPrompt:  d.OriginPrompt,
		AspectRatio:   d.Scale,
		Record:        d,
	}
}

// Handle converts a create response into a JobHandle, applying defaults.
func (d ImageData) Handle(fallbackSource, fallbackScale string) JobHandle {
	status := JobStatus(d.ImageStatus)
	if !status.Valid() {
		status = StatusQueued
	}
	source := d.SourceImage
	if source == "" {
		source = fallbackSource
	}
	scale := d.Scale
	if scale == "" {
		scale = fallbackScale
	}
	return JobHandle{
		ID:          d.ID,
		Status:      status,
		SourceImage: source,
		AspectRatio: scale,
		Prompt:      d.Prompt,
		Record:      d,
	}
}

// IsZero reports whether the provider attached nothing.
func (d ImageData) IsZero() bool {
	if raw := bytes.TrimSpace(d.raw); len(raw) > 0 && !bytes.Equal(raw, []byte("{}")) {
		return false
	}
	return d.ID == "" && d.ImageStatus == 0 && d.Image == "" && d.ExternalImg == "" &&
		d.UpscaledURLs == nil && d.Buttons == nil && d.UsedButtons == nil
}

func toActionCodes(in []string) []ActionCode {
	if in == nil {
		return nil
	}
	out := make([]ActionCode, 0, len(in))
	for _, s := range in {
		code := ActionCode(strings.TrimSpace(s))
		if code.Valid() {
			out = append(out, code)
		}
	}
	return out
}
