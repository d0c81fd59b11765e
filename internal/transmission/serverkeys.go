package transmission

import "strings"

// defaultKeyID is the pinned key a fresh credential starts with. The server
// answers with a key_id hint when it wants the client on a different key.
const defaultKeyID = "10"

// regionHostnames maps one-time-token region abbreviations to vault
// hostnames. Matching is case-insensitive; an unrecognized left-hand side is
// taken as a literal hostname.
var regionHostnames = map[string]string{
	"US":     "keepersecurity.com",
	"EU":     "keepersecurity.eu",
	"AU":     "keepersecurity.com.au",
	"GOV":    "govcloud.keepersecurity.us",
	"US_GOV": "govcloud.keepersecurity.us",
	"JP":     "keepersecurity.jp",
	"CA":     "keepersecurity.ca",
}

// serverPublicKeys is the ordered, versioned table of pinned vault public
// keys: 65-byte uncompressed P-256 points, base64url. The table is
// append-only — the operator rotates forward, but older ids stay valid so
// old clients keep working.
var serverPublicKeys = map[string]string{
	"1":  "BK9w6TZFxE6nFNbMfIpULCup2a8xc6w2tUTABjxny7yFmxW0dAL546r3oGQzfz9zAcBwSmDSz27M7RiXT50cSxk",
	"2":  "BKnhy0obglZJK-igwthNLdknoSXRrGB-mvFRzyb_L-DKKefWjYdFD2888qN1ROczz4n3keYSfKz9Koj90Z6w_tQ",
	"3":  "BAsPQdCpLIGXdWNLdAwx-3J5lNqUtKbaOMV56hUj8VzxE2USLHuHHuKDeno0ymJt-acxWV1xPlBfNUShhRTR77g",
	"4":  "BNYIh_Sv03nRZUUJveE8d2mxKLIDXv654UbshaItHrCJhd6cT7pdZ_XwbdyxAOCWMkBb9AZ4t1XRCsM8-wkEBRg",
	"5":  "BA6uNfeYSvqagwu4TOY6wFK4JyU5C200vJna0lH4PJ-SzGVXej8l9dElyQ58_ljfPs5Rq6zVVXpdDe8A7Y3WRhk",
	"6":  "BMjTIlXfohI8TDymsHxo0DqYysCy7yZGJ80WhgOBR4QUd6LBDA6-_318a-jCGW96zxXKMm8clDTKpE8w75KG-FY",
	"7":  "BJBDU1P1H21IwIdT2brKkPqbQR0Zl0TIHf7Bz_OO9jaNgIwydMkxt4GpBmkYoprZ_DHUGOrno2faB7pmTR7HhuI",
	"8":  "BJFF8j-dH7pDEw_U347w2CBM6xYM8Dk5fPPAktjib-opOqzvvbsER-WDHM4ONCSBf9O_obAHzCyygxmtpktDuiE",
	"9":  "BDKyWBvLbyZ-jMueORl3JwJnnEpCiZdN7yUvT0vOyjwpPBCDf6zfL4RWzvSkhAAFnwOni_1tQSl8dfXHbXqXsQ8",
	"10": "BDXyZZnrl0tc2jdC5I61JjwkjK2kr7uet9tZjt8StTiJTAQQmnVOYBgbtP08PWDbecxnHghx3kJ8QXq1XE68y8c",
	"11": "BLsfkmRtmeHUHkyMr1XtHzqQobkPTg3Eeauf2GPJgxDsibd0gsEnk38dnekOW_HHxgUwUvX2rL0qHvtOcIyAm_0",
	"12": "BA1bnHr6qsWUzU6VjJ8kuGC0Vc8fDFpUDWBblWFjEUH-Ea6mlnHVEmmhAWTVEqQIrYxDyMbolm3XK6h2f0v0PDo",
	"13": "BLvy-vgkobA_T5Dc3F1z78mLL7vKcl1eCSSMyJkk-g5NWqB6vqzwbCviOXDvXrhp0ETpG975TuiGfcHub3ZmQbM",
	"14": "BIWa8hZXTFxZbsdUNNwQVJJfZeNUqqHiAahrgKjVxpQTvH97Qlks2sIYwu1raxEgxFXXdu2dqAXVEFSpFw0r3-Q",
	"15": "BHYxdkhsKDsYwT2QyvoHgj6tUiLj1qqPHSjfZeI12rlmEkEqgW0uqTCtLG9M9o61pWQ59cPSJOxsyQfBBn2EeaA",
	"16": "BA3hnoHV9C3M02cDnirQB9LmBgoYVnPwzrWYwC5pIYfLf01LHmAt0e4KMsjTPLfBu7IxOc5fJE9c13tEyDSCQjc",
	"17": "BKvXcQrcONzjLo8hrpW7wCrjTD0pL6A0CYrvQys-hFui1J8ZpyBGspL-cnTdOowxIIlrk9tyYqGCTBqBnhMbtHY",
}

// parseToken splits a one-time token into its secret and the hostname it
// binds to. Accepted forms: "REGION:SECRET" (region code, case-insensitive),
// "hostname:SECRET" (literal hostname passthrough), or a bare secret — the
// latter requires the hostname to be supplied through configuration.
func parseToken(token, fallbackHostname string) (secret, hostname string, err error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return "", "", errEmptyToken
	}

	left, right, found := strings.Cut(token, ":")
	if !found {
		if fallbackHostname == "" {
			return "", "", errNoHostname
		}
		return token, normalizeHostname(fallbackHostname), nil
	}

	if host, ok := regionHostnames[strings.ToUpper(left)]; ok {
		return right, host, nil
	}
	return right, normalizeHostname(left), nil
}

// normalizeHostname strips the https scheme so stored hostnames are bare. An
// explicit http scheme stays as written; it marks a local or test endpoint
// and must not be silently upgraded.
func normalizeHostname(h string) string {
	h = strings.TrimSpace(h)
	h = strings.TrimPrefix(h, "https://")
	return strings.TrimSuffix(h, "/")
}
