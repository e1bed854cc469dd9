package bookings

import "strings"

type Property int

const (
	PropertyRiad Property = iota
	PropertyKasbah
	PropertyDesertCamp
)

// PropertyContent is the guest-facing copy that differs per property.
type PropertyContent struct {
	Name         string
	Subtitle     string
	Directions   []string
	SignOff      string
	Footer       string
	CheckInTime  string
	CheckOutTime string
}

var propertyContent = map[Property]PropertyContent{
	PropertyRiad: {
		Name:     "Riad di Siena",
		Subtitle: "Thank you for choosing Riad di Siena. We are preparing the house to receive you.",
		Directions: []string{
			"The Medina is pedestrian-only. Have your driver drop you at Café Medina Rouge (near Koutoubia Mosque). From there, it's a 2-minute walk to our door at 35–37 Derb Fhal Zefriti.",
			"We can arrange a private driver from the airport for 200 MAD. Just let us know when you confirm your arrival.",
		},
		SignOff:      "The Riad",
		Footer:       "Riad di Siena · 35–37 Derb Fhal Zefriti · Marrakech Medina",
		CheckInTime:  "3:00 PM",
		CheckOutTime: "11:00 AM",
	},
	PropertyKasbah: {
		Name:     "The Kasbah",
		Subtitle: "Thank you for choosing The Kasbah. We are preparing your rooms in the Draa Valley.",
		Directions: []string{
			"The Kasbah is located in the Draa Valley, approximately 2 hours from Ouarzazate airport or 5 hours from Marrakech.",
			"We will coordinate your transfer details once you confirm your arrival time. Most guests arrive via private driver from Marrakech or Ouarzazate.",
		},
		SignOff:      "The Kasbah",
		Footer:       "The Kasbah · Draa Valley · Morocco",
		CheckInTime:  "3:00 PM",
		CheckOutTime: "11:00 AM",
	},
	PropertyDesertCamp: {
		Name:     "The Desert Camp",
		Subtitle: "Thank you for choosing The Desert Camp. The Sahara awaits.",
		Directions: []string{
			"The camp is located in the Erg Chebbi dunes near Merzouga, approximately 5 hours from Ouarzazate or 9 hours from Marrakech.",
			"We will coordinate your transfer and camel trek once you confirm your arrival time. Most guests arrive in Merzouga by mid-afternoon for the sunset camel ride to camp.",
		},
		SignOff:      "The Desert Camp",
		Footer:       "The Desert Camp · Erg Chebbi · Sahara",
		CheckInTime:  "4:00 PM",
		CheckOutTime: "10:00 AM",
	},
}

// ClassifyProperty maps the free-text property name to a known property.
// Anything unrecognised is the riad in Marrakech.
func ClassifyProperty(name string) Property {
	name = strings.ToLower(name)
	switch {
	case strings.Contains(name, "kasbah"):
		return PropertyKasbah
	case strings.Contains(name, "desert"), strings.Contains(name, "camp"):
		return PropertyDesertCamp
	default:
		return PropertyRiad
	}
}

func (p Property) Content() PropertyContent {
	c, ok := propertyContent[p]
	if !ok {
		return propertyContent[PropertyRiad]
	}
	return c
}

func (p Property) String() string {
	switch p {
	case PropertyKasbah:
		return "kasbah"
	case PropertyDesertCamp:
		return "desert_camp"
	default:
		return "riad"
	}
}
