package aqi

// Level is the qualitative bucket for an AQI value
type Level struct {
	Label string
	Color string
}

// Category maps an AQI value to its EPA style bucket
func Category(aqi int) Level {
	switch {
	case aqi <= 50:
		return Level{Label: "Good", Color: "#10b981"}
	case aqi <= 100:
		return Level{Label: "Moderate", Color: "#f59e0b"}
	case aqi <= 150:
		return Level{Label: "Unhealthy for Sensitive Groups", Color: "#f97316"}
	case aqi <= 200:
		return Level{Label: "Unhealthy", Color: "#ef4444"}
	case aqi <= 300:
		return Level{Label: "Very Unhealthy", Color: "#8b5cf6"}
	default:
		return Level{Label: "Hazardous", Color: "#7f1d1d"}
	}
}

// HealthRecommendations returns the health guidance for an AQI value, most
// important recommendation first
func HealthRecommendations(aqi int) []string {
	switch {
	case aqi <= 50:
		return []string{
			"Air quality is considered satisfactory, and air pollution poses little or no risk.",
			"Enjoy outdoor activities.",
		}
	case aqi <= 100:
		return []string{
			"Air quality is acceptable; however, there may be a moderate health concern for a very small number of people.",
			"Unusually sensitive people should consider reducing prolonged or heavy exertion.",
		}
	case aqi <= 150:
		return []string{
			"Members of sensitive groups may experience health effects.",
			"People with heart or lung disease, older adults, and children should reduce prolonged or heavy exertion.",
		}
	case aqi <= 200:
		return []string{
			"Everyone may begin to experience health effects; members of sensitive groups may experience more serious health effects.",
			"People with heart or lung disease, older adults, and children should avoid prolonged or heavy exertion.",
			"Everyone else should reduce prolonged or heavy exertion.",
		}
	case aqi <= 300:
		return []string{
			"Health warnings of emergency conditions. The entire population is more likely to be affected.",
			"People with heart or lung disease, older adults, and children should avoid all physical activity outdoors.",
			"Everyone else should avoid prolonged or heavy exertion.",
		}
	default:
		return []string{
			"Health alert: everyone may experience more serious health effects.",
			"Everyone should avoid all physical activity outdoors.",
			"People with heart or lung disease, older adults, and children should remain indoors and keep activity levels low.",
			"Consider using air purifiers and wearing masks (N95 or better) if going outside is unavoidable.",
		}
	}
}
