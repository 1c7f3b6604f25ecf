package listing

import "strings"

// Patch is a partial update. Nil fields are left unchanged.
type Patch struct {
	Title        *string       `json:"title,omitempty"`
	Description  *string       `json:"description,omitempty"`
	PropertyType *string       `json:"propertyType,omitempty"`
	Status       *string       `json:"status,omitempty"`
	Price        *float64      `json:"price,omitempty"`
	Beds         *int          `json:"beds,omitempty"`
	Baths        *int          `json:"baths,omitempty"`
	Area         *float64      `json:"area,omitempty"`
	Address      *string       `json:"address,omitempty"`
	LocationID   *int64        `json:"locationId,omitempty"`
	DeveloperID  *int64        `json:"developerId,omitempty"`
	Images       *[]string     `json:"images,omitempty"`
	Features     *[]string     `json:"features,omitempty"`
	Latitude     *float64      `json:"latitude,omitempty"`
	Longitude    *float64      `json:"longitude,omitempty"`
	Featured     *bool         `json:"featured,omitempty"`
	Premium      *bool         `json:"premium,omitempty"`
	Exclusive    *bool         `json:"exclusive,omitempty"`
	NewLaunch    *bool         `json:"newLaunch,omitempty"`
	ReviewStatus *ReviewStatus `json:"reviewStatus,omitempty"`
	ContactName  *string       `json:"contactName,omitempty"`
	ContactEmail *string       `json:"contactEmail,omitempty"`
	ContactPhone *string       `json:"contactPhone,omitempty"`
	ListingType  *Type         `json:"listingType,omitempty"`
}

// assignment is one column to set in an UPDATE.
type assignment struct {
	column string
	value  any
}

// assignments returns the columns a patch sets, in a stable order.
// Images and features are passed as []string; each backend encodes them.
func (p Patch) assignments() []assignment {
	var out []assignment
	add := func(set bool, column string, value func() any) {
		if set {
			out = append(out, assignment{column: column, value: value()})
		}
	}

	add(p.Title != nil, "title", func() any { return *p.Title })
	add(p.Description != nil, "description", func() any { return *p.Description })
	add(p.PropertyType != nil, "property_type", func() any { return *p.PropertyType })
	add(p.Status != nil, "status", func() any { return *p.Status })
	add(p.Price != nil, "price", func() any { return *p.Price })
	add(p.Beds != nil, "beds", func() any { return *p.Beds })
	add(p.Baths != nil, "baths", func() any { return *p.Baths })
	add(p.Area != nil, "area", func() any { return *p.Area })
	add(p.Address != nil, "address", func() any { return *p.Address })
	add(p.LocationID != nil, "location_id", func() any { return *p.LocationID })
	add(p.DeveloperID != nil, "developer_id", func() any { return *p.DeveloperID })
	add(p.Images != nil, "images", func() any { return cleanList(*p.Images) })
	add(p.Features != nil, "features", func() any { return cleanList(*p.Features) })
	add(p.Latitude != nil, "latitude", func() any { return *p.Latitude })
	add(p.Longitude != nil, "longitude", func() any { return *p.Longitude })
	add(p.Featured != nil, "featured", func() any { return *p.Featured })
	add(p.Premium != nil, "premium", func() any { return *p.Premium })
	add(p.Exclusive != nil, "exclusive", func() any { return *p.Exclusive })
	add(p.NewLaunch != nil, "new_launch", func() any { return *p.NewLaunch })
	add(p.ReviewStatus != nil, "review_status", func() any { return string(*p.ReviewStatus) })
	add(p.ContactName != nil, "contact_name", func() any { return *p.ContactName })
	add(p.ContactEmail != nil, "contact_email", func() any { return *p.ContactEmail })
	add(p.ContactPhone != nil, "contact_phone", func() any { return *p.ContactPhone })
	add(p.ListingType != nil, "listing_type", func() any { return string(*p.ListingType) })

	return out
}

// IsEmpty reports whether the patch changes nothing.
func (p Patch) IsEmpty() bool {
	return len(p.assignments()) == 0
}

// normalize cleans the text fields a patch sets with the same rules
// Listing.Normalize applies to a new listing.
func (p *Patch) normalize() {
	trim := func(v *string) {
		if v != nil {
			*v = strings.TrimSpace(*v)
		}
	}
	lower := func(v *string) {
		if v != nil {
			*v = strings.ToLower(strings.TrimSpace(*v))
		}
	}

	trim(p.Title)
	trim(p.Description)
	lower(p.PropertyType)
	trim(p.Address)
	trim(p.ContactName)
	lower(p.ContactEmail)
	trim(p.ContactPhone)
	if p.ListingType != nil {
		t := Type(strings.ToLower(strings.TrimSpace(string(*p.ListingType))))
		if t == "" {
			t = TypeSale
		}
		p.ListingType = &t
	}
}

// Apply merges the patch into l. UpdatedAt is the caller's concern.
func (p Patch) Apply(l *Listing) {
	if p.Title != nil {
		l.Title = *p.Title
	}
	if p.Description != nil {
		l.Description = *p.Description
	}
	if p.PropertyType != nil {
		l.PropertyType = *p.PropertyType
	}
	if p.Status != nil {
		l.Status = *p.Status
	}
	if p.Price != nil {
		l.Price = *p.Price
	}
	if p.Beds != nil {
		l.Beds = *p.Beds
	}
	if p.Baths != nil {
		l.Baths = *p.Baths
	}
	if p.Area != nil {
		l.Area = *p.Area
	}
	if p.Address != nil {
		l.Address = *p.Address
	}
	if p.LocationID != nil {
		id := *p.LocationID
		l.LocationID = &id
	}
	if p.DeveloperID != nil {
		id := *p.DeveloperID
		l.DeveloperID = &id
	}
	if p.Images != nil {
		l.Images = cleanList(*p.Images)
	}
	if p.Features != nil {
		l.Features = cleanList(*p.Features)
	}
	if p.Latitude != nil {
		v := *p.Latitude
		l.Latitude = &v
	}
	if p.Longitude != nil {
		v := *p.Longitude
		l.Longitude = &v
	}
	if p.Featured != nil {
		l.Featured = *p.Featured
	}
	if p.Premium != nil {
		l.Premium = *p.Premium
	}
	if p.Exclusive != nil {
		l.Exclusive = *p.Exclusive
	}
	if p.NewLaunch != nil {
		l.NewLaunch = *p.NewLaunch
	}
	if p.ReviewStatus != nil {
		l.ReviewStatus = *p.ReviewStatus
	}
	if p.ContactName != nil {
		l.ContactName = *p.ContactName
	}
	if p.ContactEmail != nil {
		l.ContactEmail = *p.ContactEmail
	}
	if p.ContactPhone != nil {
		l.ContactPhone = *p.ContactPhone
	}
	if p.ListingType != nil {
		l.ListingType = *p.ListingType
	}
}
