package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DynamicPart is one labeled content block of a page (hero, about,
// experience tile, ...). A record without ParentID acts as the section's
// shared title holder; records with ParentID are its child items.
type DynamicPart struct {
	ID       primitive.ObjectID  `bson:"_id,omitempty" json:"_id"`
	Page     string              `bson:"page" json:"page"`
	Key      string              `bson:"key" json:"key"`
	ParentID *primitive.ObjectID `bson:"parentId,omitempty" json:"parentId,omitempty"`

	Title               string `bson:"title" json:"title"`
	TitleEN             string `bson:"title_en,omitempty" json:"title_en,omitempty"`
	SecondTitle         string `bson:"secondTitle" json:"secondTitle"`
	SecondTitleEN       string `bson:"secondTitle_en,omitempty" json:"secondTitle_en,omitempty"`
	Description         string `bson:"description" json:"description"`
	DescriptionEN       string `bson:"description_en,omitempty" json:"description_en,omitempty"`
	SecondDescription   string `bson:"secondDescription" json:"secondDescription"`
	SecondDescriptionEN string `bson:"secondDescription_en,omitempty" json:"secondDescription_en,omitempty"`

	Image        string `bson:"image,omitempty" json:"image,omitempty"`
	MobileImage  string `bson:"mobileImage,omitempty" json:"mobileImage,omitempty"`
	Image2       string `bson:"image2,omitempty" json:"image2,omitempty"`
	MobileImage2 string `bson:"mobileImage2,omitempty" json:"mobileImage2,omitempty"`
	Image3       string `bson:"image3,omitempty" json:"image3,omitempty"`
	MobileImage3 string `bson:"mobileImage3,omitempty" json:"mobileImage3,omitempty"`

	Order     int  `bson:"order" json:"order"`
	Published bool `bson:"published" json:"published"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}
