package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Apartment struct {
	ID      primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Title   string             `bson:"title" json:"title"`
	TitleEN string             `bson:"title_en,omitempty" json:"title_en,omitempty"`
	Slug    string             `bson:"slug" json:"slug"`

	Description     string `bson:"description" json:"description"`
	DescriptionEN   string `bson:"description_en,omitempty" json:"description_en,omitempty"`
	Details         string `bson:"details,omitempty" json:"details,omitempty"`
	DetailsEN       string `bson:"details_en,omitempty" json:"details_en,omitempty"`
	Address         string `bson:"address" json:"address"`
	AddressEN       string `bson:"address_en,omitempty" json:"address_en,omitempty"`
	AddressDetail   string `bson:"addressDetail,omitempty" json:"addressDetail,omitempty"`
	AddressDetailEN string `bson:"addressDetail_en,omitempty" json:"addressDetail_en,omitempty"`
	Floor           string `bson:"floor,omitempty" json:"floor,omitempty"`

	Guests    int `bson:"guests" json:"guests"`
	SizeSqm   int `bson:"sizeSqm" json:"sizeSqm"`
	Bathrooms int `bson:"bathrooms" json:"bathrooms"`

	// Regional rental registration codes, free text.
	CIR string `bson:"cir,omitempty" json:"cir,omitempty"`
	CIN string `bson:"cin,omitempty" json:"cin,omitempty"`

	Image   string   `bson:"image" json:"image"`
	Gallery []string `bson:"gallery" json:"gallery"`
	Plan    string   `bson:"plan,omitempty" json:"plan,omitempty"`

	Amenities    []Amenity     `bson:"amenities" json:"amenities"`
	Rules        *Rules        `bson:"rules,omitempty" json:"rules,omitempty"`
	Cancellation *Cancellation `bson:"cancellation,omitempty" json:"cancellation,omitempty"`

	// Location and lat/lng carry the same point; both are written together.
	Location *GeoPoint `bson:"location,omitempty" json:"location,omitempty"`
	Lat      *float64  `bson:"lat,omitempty" json:"lat,omitempty"`
	Lng      *float64  `bson:"lng,omitempty" json:"lng,omitempty"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

// GeoPoint is a GeoJSON Point; Coordinates is [lng, lat].
type GeoPoint struct {
	Type        string    `bson:"type" json:"type"`
	Coordinates []float64 `bson:"coordinates" json:"coordinates"`
}

func NewGeoPoint(lat, lng float64) *GeoPoint {
	return &GeoPoint{Type: "Point", Coordinates: []float64{lng, lat}}
}

type Rules struct {
	CheckInFrom string `bson:"checkInFrom,omitempty" json:"checkInFrom,omitempty"`
	CheckInTo   string `bson:"checkInTo,omitempty" json:"checkInTo,omitempty"`
	CheckOutBy  string `bson:"checkOutBy,omitempty" json:"checkOutBy,omitempty"`
}

type CancellationPolicy string

const (
	CancellationFlexible CancellationPolicy = "flexible"
	CancellationModerate CancellationPolicy = "moderate"
	CancellationStrict   CancellationPolicy = "strict"
)

func (p CancellationPolicy) Valid() bool {
	switch p {
	case CancellationFlexible, CancellationModerate, CancellationStrict:
		return true
	}
	return false
}

type Cancellation struct {
	Policy CancellationPolicy `bson:"policy" json:"policy"`
	Note   string             `bson:"note,omitempty" json:"note,omitempty"`
	NoteEN string             `bson:"note_en,omitempty" json:"note_en,omitempty"`
}

type Amenity string

const (
	AmenityWifi            Amenity = "wifi"
	AmenityAirConditioning Amenity = "air_conditioning"
	AmenityHeating         Amenity = "heating"
	AmenityKitchen         Amenity = "kitchen"
	AmenityDishwasher      Amenity = "dishwasher"
	AmenityWashingMachine  Amenity = "washing_machine"
	AmenityDryer           Amenity = "dryer"
	AmenityTV              Amenity = "tv"
	AmenityElevator        Amenity = "elevator"
	AmenityBalcony         Amenity = "balcony"
	AmenityTerrace         Amenity = "terrace"
	AmenityParking         Amenity = "parking"
	AmenityCrib            Amenity = "crib"
	AmenityHairdryer       Amenity = "hairdryer"
	AmenityIron            Amenity = "iron"
	AmenityCoffeeMachine   Amenity = "coffee_machine"
	AmenitySelfCheckIn     Amenity = "self_check_in"
)

var amenitySet = map[Amenity]struct{}{
	AmenityWifi: {}, AmenityAirConditioning: {}, AmenityHeating: {},
	AmenityKitchen: {}, AmenityDishwasher: {}, AmenityWashingMachine: {},
	AmenityDryer: {}, AmenityTV: {}, AmenityElevator: {}, AmenityBalcony: {},
	AmenityTerrace: {}, AmenityParking: {}, AmenityCrib: {},
	AmenityHairdryer: {}, AmenityIron: {}, AmenityCoffeeMachine: {},
	AmenitySelfCheckIn: {},
}

func (a Amenity) Valid() bool {
	_, ok := amenitySet[a]
	return ok
}
