package schema

// Code tables for the public school directory export. Locale codes are the
// legacy 8-value classification, urban-centric codes the 12-value revision.
var (
	localeCodes = map[int64]string{
		1: "LARGE_CITY",
		2: "MIDSIZE_CITY",
		3: "URBAN_FRINGE_LARGE_CITY",
		4: "URBAN_FRINGE_MIDSIZE_CITY",
		5: "LARGE_TOWN",
		6: "SMALL_TOWN",
		7: "RURAL_OUTSIDE_CBSA",
		8: "RURAL_INSIDE_CBSA",
	}

	urbanLocaleCodes = map[int64]string{
		11: "CITY_LARGE",
		12: "CITY_MIDSIZE",
		13: "CITY_SMALL",
		21: "SUBURB_LARGE",
		22: "SUBURB_MIDSIZE",
		23: "SUBURB_SMALL",
		31: "TOWN_FRINGE",
		32: "TOWN_DISTANT",
		33: "TOWN_REMOTE",
		41: "RURAL_FRINGE",
		42: "RURAL_DISTANT",
		43: "RURAL_REMOTE",
	}

	statusCodes = map[int64]string{
		1: "OPERATIONAL",
		2: "CLOSED",
		3: "OPENED",
		4: "OPERATIONAL_NEWLY_LISTED",
		5: "NEW_AGENCY",
		6: "TEMP_CLOSED",
		7: "WILL_BE_OPERATIONAL",
		8: "REOPENED",
	}
)

// Default returns the built-in schema for the school directory export:
// one row per school with its agency, location and classification codes.
// Used whenever no schema file is configured.
func Default() *Schema {
	s := &Schema{
		Name: "schools",
		Fields: []Field{
			{Name: "school_id", Type: TypeString, Required: true},
			{Name: "agency_id", Type: TypeString},
			{Name: "agency", Column: "agency_name", Type: TypeString},
			{Name: "name", Type: TypeString, Required: true},
			{Name: "city", Type: TypeString, Required: true},
			{Name: "state", Type: TypeString, Required: true, Length: 2},
			{Name: "lat", Type: TypeFloat},
			{Name: "lon", Column: "long", Type: TypeFloat},
			{Name: "locale", Column: "locale_code", Type: TypeCode, Codes: localeCodes},
			{Name: "urban_locale", Column: "urban_code", Type: TypeCode, Codes: urbanLocaleCodes},
			{Name: "status", Column: "status_code", Type: TypeCode, Codes: statusCodes},
		},
		Searchable: []string{"name", "city", "state"},
	}
	if err := s.Validate(); err != nil {
		// The built-in declaration is fixed at compile time.
		panic(err)
	}
	return s
}
