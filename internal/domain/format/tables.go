package format

import "strings"

type keywordList struct {
	keywords []string
	values   []string
}

var featureTable = []keywordList{
	{[]string{"patio", "garden"}, []string{"Weather Resistant", "Low Maintenance", "Year-Round Use", "Durable Materials"}},
	{[]string{"kitchen"}, []string{"Modern Appliances", "Ample Storage", "Task Lighting", "Quality Countertops"}},
	{[]string{"bathroom"}, []string{"Water Efficient", "Easy Maintenance", "Good Ventilation", "Modern Vanity"}},
	{[]string{"living"}, []string{"Comfortable Layout", "Natural Light", "Entertainment Ready", "Quality Finishes"}},
	{[]string{"bedroom"}, []string{"Relaxing Ambiance", "Good Storage", "Natural Light", "Quality Materials"}},
	{[]string{"dining"}, []string{"Elegant Design", "Comfortable Seating", "Good Lighting", "Entertaining Space"}},
}

var defaultFeatures = []string{"Quality Materials", "Professional Design", "Long-Lasting", "Easy Maintenance"}

var outdoorMaterials = []keywordList{
	{[]string{"humid"}, []string{"Composite Decking", "Aluminum Frames", "Weather-Resistant Fabrics", "Powder-Coated Steel"}},
	{[]string{"cold"}, []string{"Cedar Wood", "Natural Stone", "Insulated Materials", "Stainless Steel"}},
}

var defaultOutdoorMaterials = []string{"Teak Wood", "Stainless Steel", "UV-Resistant Materials", "Natural Stone"}

var indoorMaterials = []keywordList{
	{[]string{"humid"}, []string{"Quartz Countertops", "Ceramic Tiles", "Stainless Steel", "Treated Wood"}},
	{[]string{"cold"}, []string{"Hardwood Flooring", "Natural Stone", "Insulated Materials", "Quality Hardware"}},
}

var defaultIndoorMaterials = []string{"Granite Countertops", "Hardwood Flooring", "Glass Accents", "Metal Hardware"}

type share struct {
	key  string
	item string
	pct  float64
}

type breakdownRule struct {
	keywords []string
	shares   []share
}

// Each split sums to 100%.
var breakdownTable = []breakdownRule{
	{[]string{"patio", "garden"}, []share{
		{"furniture", "Outdoor Furniture", 0.40},
		{"hardscape", "Hardscape & Structure", 0.35},
		{"features", "Features & Accessories", 0.25},
	}},
	{[]string{"kitchen"}, []share{
		{"cabinets", "Kitchen Cabinets", 0.45},
		{"countertops", "Countertops", 0.30},
		{"appliances", "Appliances & Fixtures", 0.25},
	}},
	{[]string{"bathroom"}, []share{
		{"fixtures", "Bathroom Fixtures", 0.40},
		{"tiles", "Tiles & Flooring", 0.35},
		{"vanity", "Vanity & Storage", 0.25},
	}},
}

var defaultBreakdown = []share{
	{"furniture", "Furniture & Fixtures", 0.50},
	{"flooring", "Flooring & Finishes", 0.30},
	{"decor", "Decor & Accessories", 0.20},
}

// lookup returns a copy of the first entry whose keyword occurs in the
// lower-cased subject, or def.
func lookup(table []keywordList, subject string, def []string) []string {
	s := strings.ToLower(subject)
	for _, row := range table {
		if containsAny(s, row.keywords) {
			return append([]string(nil), row.values...)
		}
	}
	return append([]string(nil), def...)
}

func containsAny(s string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(s, k) {
			return true
		}
	}
	return false
}
