package catalog

// ReferenceBaselines returns regional average values per metric, used only
// for display comparison next to a property's readings. Baselines never
// feed into scoring.
func ReferenceBaselines() map[string]float64 {
	return map[string]float64{
		"CO2":           650,
		"PM25":          8,
		"PM10":          22,
		"VOCs":          150,
		"Humidity":      45,
		"Temp":          71,
		"TDS":           220,
		"Cl":            0.5,
		"pH":            7.2,
		"MagField":      0.8,
		"ElectricField": 0.3,
		"RF":            0.05,
	}
}

// Baseline returns the regional baseline for key, if one exists.
func Baseline(key string) (float64, bool) {
	v, ok := ReferenceBaselines()[key]
	return v, ok
}
