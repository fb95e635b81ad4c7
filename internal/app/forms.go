package app

import (
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"santatecla_living/internal/domain"
)

// Field is a tri-state form value: absent (Set=false, leave stored value
// alone), explicit clear (Set=true, Value==""), or explicit value.
type Field struct {
	Set   bool
	Value string
}

func (f Field) apply(dst *string) {
	if f.Set {
		*dst = f.Value
	}
}

// Upload is one submitted file, decoupled from mime/multipart so the
// reconciliation logic is testable without building HTTP bodies.
type Upload struct {
	Filename    string
	ContentType string
	Open        func() (io.ReadCloser, error)
}

func (u Upload) ext() string {
	return strings.ToLower(filepath.Ext(u.Filename))
}

var imageExts = map[string]struct{}{
	".jpg": {}, ".jpeg": {}, ".png": {}, ".webp": {}, ".gif": {}, ".avif": {},
}

func (u Upload) isImage() bool {
	if strings.HasPrefix(u.ContentType, "image/") {
		return true
	}
	_, ok := imageExts[u.ext()]
	return ok
}

func uploadFromHeader(fh *multipart.FileHeader) Upload {
	return Upload{
		Filename:    fh.Filename,
		ContentType: fh.Header.Get("Content-Type"),
		Open: func() (io.ReadCloser, error) {
			return fh.Open()
		},
	}
}

// ApartmentForm is the decoded multipart payload of the create/edit routes.
type ApartmentForm struct {
	Title           Field
	TitleEN         Field
	Description     Field
	DescriptionEN   Field
	Details         Field
	DetailsEN       Field
	Address         Field
	AddressEN       Field
	AddressDetail   Field
	AddressDetailEN Field
	Floor           Field
	Guests          Field
	SizeSqm         Field
	Bathrooms       Field
	CIR             Field
	CIN             Field
	Lat             Field
	Lng             Field

	Amenities    *[]domain.Amenity // nil when absent
	Rules        Field             // raw JSON; "" clears
	Cancellation Field             // raw JSON; "" clears

	Cover      *Upload
	Plan       *Upload
	RemovePlan bool

	GalleryNew   []Upload
	GalleryOrder []string // nil when absent
	KeepGallery  []string // nil when absent
}

// DecodeApartmentForm turns a parsed multipart form into an ApartmentForm.
// Structured JSON fields are validated here; malformed JSON is an error
// rather than a silent no-op.
func DecodeApartmentForm(form *multipart.Form) (ApartmentForm, error) {
	f := ApartmentForm{}
	get := func(k string) Field {
		vs, ok := form.Value[k]
		if !ok || len(vs) == 0 {
			return Field{}
		}
		return Field{Set: true, Value: vs[0]}
	}

	f.Title = get("title")
	f.TitleEN = get("title_en")
	f.Description = get("description")
	f.DescriptionEN = get("description_en")
	f.Details = get("details")
	f.DetailsEN = get("details_en")
	f.Address = get("address")
	f.AddressEN = get("address_en")
	f.AddressDetail = get("addressDetail")
	f.AddressDetailEN = get("addressDetail_en")
	f.Floor = get("floor")
	f.Guests = get("guests")
	f.SizeSqm = get("sizeSqm")
	f.Bathrooms = get("bathrooms")
	f.CIR = get("cir")
	f.CIN = get("cin")
	f.Lat = get("lat")
	f.Lng = get("lng")
	f.Rules = get("rules")
	f.Cancellation = get("cancellation")

	if am := get("amenities"); am.Set {
		list := []domain.Amenity{}
		if strings.TrimSpace(am.Value) != "" {
			if err := json.Unmarshal([]byte(am.Value), &list); err != nil {
				return f, domain.ValidationError("amenities is not a valid JSON array")
			}
			for _, a := range list {
				if !a.Valid() {
					return f, domain.ValidationError(fmt.Sprintf("unknown amenity %q", a))
				}
			}
		}
		f.Amenities = &list
	}

	if ord := get("galleryOrder"); ord.Set && strings.TrimSpace(ord.Value) != "" {
		var tokens []string
		if err := json.Unmarshal([]byte(ord.Value), &tokens); err != nil {
			return f, domain.ValidationError("galleryOrder is not a valid JSON array")
		}
		f.GalleryOrder = tokens
	}
	if keep := get("keepGallery"); keep.Set && strings.TrimSpace(keep.Value) != "" {
		var paths []string
		if err := json.Unmarshal([]byte(keep.Value), &paths); err != nil {
			return f, domain.ValidationError("keepGallery is not a valid JSON array")
		}
		f.KeepGallery = paths
	}

	if rp := get("removePlan"); rp.Set {
		f.RemovePlan = rp.Value == "true" || rp.Value == "1"
	}

	if fhs := form.File["image"]; len(fhs) > 0 {
		u := uploadFromHeader(fhs[0])
		f.Cover = &u
	}
	if fhs := form.File["plan"]; len(fhs) > 0 {
		u := uploadFromHeader(fhs[0])
		f.Plan = &u
	}
	for _, fh := range form.File["galleryNew"] {
		f.GalleryNew = append(f.GalleryNew, uploadFromHeader(fh))
	}
	// some clients index the field explicitly
	for _, fh := range form.File["galleryNew[]"] {
		f.GalleryNew = append(f.GalleryNew, uploadFromHeader(fh))
	}

	return f, nil
}

var timeOfDayRe = regexp.MustCompile(`^\d{1,2}(:\d{2})?$`)

func parseRules(raw string) (*domain.Rules, error) {
	var r domain.Rules
	if err := json.Unmarshal([]byte(raw), &r); err != nil {
		return nil, domain.ValidationError("rules is not valid JSON")
	}
	for _, v := range []string{r.CheckInFrom, r.CheckInTo, r.CheckOutBy} {
		if v != "" && !timeOfDayRe.MatchString(v) {
			return nil, domain.ValidationError(fmt.Sprintf("rules time %q is not HH or HH:MM", v))
		}
	}
	return &r, nil
}

func parseCancellation(raw string) (*domain.Cancellation, error) {
	var c domain.Cancellation
	if err := json.Unmarshal([]byte(raw), &c); err != nil {
		return nil, domain.ValidationError("cancellation is not valid JSON")
	}
	if !c.Policy.Valid() {
		return nil, domain.ValidationError(fmt.Sprintf("unknown cancellation policy %q", c.Policy))
	}
	return &c, nil
}

func parsePositiveInt(f Field, name string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(f.Value))
	if err != nil || n < 1 {
		return 0, domain.ValidationError(fmt.Sprintf("%s must be a positive integer", name))
	}
	return n, nil
}

func parseFloatField(f Field, name string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(f.Value), 64)
	if err != nil {
		return 0, domain.ValidationError(fmt.Sprintf("%s must be a number", name))
	}
	return v, nil
}

// PartForm is the decoded multipart payload of the dynamic-part routes.
type PartForm struct {
	Page     Field
	Key      Field
	ParentID Field

	Title               Field
	TitleEN             Field
	SecondTitle         Field
	SecondTitleEN       Field
	Description         Field
	DescriptionEN       Field
	SecondDescription   Field
	SecondDescriptionEN Field

	Order     Field
	Published Field

	// Image slots: an uploaded file wins over the text value; the text
	// value passes a URL through (or clears the slot when empty).
	Images [6]ImageSlot
}

// Slot order mirrors the document fields.
var slotNames = [6]string{"image", "mobileImage", "image2", "mobileImage2", "image3", "mobileImage3"}

type ImageSlot struct {
	File *Upload
	URL  Field
}

func DecodePartForm(form *multipart.Form) PartForm {
	f := PartForm{}
	get := func(k string) Field {
		vs, ok := form.Value[k]
		if !ok || len(vs) == 0 {
			return Field{}
		}
		return Field{Set: true, Value: vs[0]}
	}

	f.Page = get("page")
	f.Key = get("key")
	f.ParentID = get("parentId")
	f.Title = get("title")
	f.TitleEN = get("title_en")
	f.SecondTitle = get("secondTitle")
	f.SecondTitleEN = get("secondTitle_en")
	f.Description = get("description")
	f.DescriptionEN = get("description_en")
	f.SecondDescription = get("secondDescription")
	f.SecondDescriptionEN = get("secondDescription_en")
	f.Order = get("order")
	f.Published = get("published")

	for i, name := range slotNames {
		f.Images[i].URL = get(name)
		if fhs := form.File[name]; len(fhs) > 0 {
			u := uploadFromHeader(fhs[0])
			f.Images[i].File = &u
		}
	}
	return f
}
