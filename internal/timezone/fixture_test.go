package timezone

import "encoding/json"

const fixturePayload = `{
  "timezones_by_continent": {
    "Africa": [
      {"value": "Africa/Abidjan", "offset": 0},
      {"value": "Africa/Cairo", "offset": "+02:00"},
      {"value": "Africa/Nairobi", "offset": "UTC+3"}
    ],
    "America": [
      {"value": "America/New_York", "offset": -300},
      {"value": "America/St_Johns", "offset": "-03:30"},
      {"value": "America/Sao_Paulo", "offset": "-0300"}
    ],
    "Asia": [
      {"value": "Asia/Kolkata", "offset": "+05:30"},
      {"value": "Asia/Tokyo", "offset": 540},
      {"slug": "Asia/Kathmandu", "offset": "UTC+5:45"}
    ],
    "Europe": [
      {"value": "Europe/London", "offset": "Z"},
      {"value": "Europe/Paris", "offset": 60},
      {"value": "Europe/Athens", "offset": "+02:00"}
    ]
  }
}`

func fixtureRaw() any {
	var raw any
	if err := json.Unmarshal([]byte(fixturePayload), &raw); err != nil {
		panic(err)
	}
	return raw
}

func decode(s string) any {
	var raw any
	if err := json.Unmarshal([]byte(s), &raw); err != nil {
		panic(err)
	}
	return raw
}
