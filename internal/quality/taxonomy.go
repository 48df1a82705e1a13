package quality

// semanticCategories maps measurement categories to the tokens that signal
// them. Both source tokens and target measurement tokens are classified
// against this table.
var semanticCategories = map[string][]string{
	"temp":     {"temp", "temperature", "tmp", "rt", "sat", "rat", "oat", "mat"},
	"pressure": {"pressure", "press", "pres", "psi", "pa", "dp"},
	"humidity": {"humidity", "humid", "rh", "moisture"},
	"flow":     {"flow", "cfm", "gpm", "lps", "volume"},
	"status":   {"status", "state", "run", "running", "enable", "enabled", "onoff"},
	"setpoint": {"setpoint", "sp", "stpt", "set"},
	"valve":    {"valve", "vlv", "damper", "dmp", "position", "pos"},
	"speed":    {"speed", "spd", "freq", "frequency", "rpm", "vfd"},
	"power":    {"power", "energy", "demand", "load", "consumption"},
	"alarm":    {"alarm", "alm", "alert", "warning", "fault", "fail", "failure"},
}

// deviceKeywords lists the tokens expected on each device type's points.
// Unknown device types score neutral.
var deviceKeywords = map[string][]string{
	"AHU":           {"supply", "return", "air", "temp", "fan", "damper", "filter", "coil", "mixed", "outside", "sa", "ra"},
	"FCU":           {"zone", "room", "air", "temp", "fan", "valve", "mode", "speed"},
	"CHILLER":       {"chilled", "water", "temp", "compressor", "condenser", "evaporator", "load", "chw"},
	"PUMP":          {"water", "flow", "pressure", "speed", "status", "run"},
	"BOILER":        {"hot", "water", "temp", "steam", "pressure", "flame"},
	"COOLING_TOWER": {"condenser", "water", "fan", "temp", "basin", "cw"},
	"VAV":           {"zone", "air", "flow", "damper", "temp", "reheat"},
	"METER":         {"energy", "power", "demand", "consumption", "total"},
}

// acceptedPrefixes lists the target-name prefixes a device type accepts.
// A device type without an entry accepts only its own lowercased name.
var acceptedPrefixes = map[string][]string{
	"CHILLER":       {"chiller", "ch", "chl"},
	"PUMP":          {"pump", "pmp", "cwp", "chwp"},
	"BOILER":        {"boiler", "blr"},
	"COOLING_TOWER": {"ct", "coolingtower"},
	"METER":         {"meter", "energy"},
}

// categorize returns the set of semantic categories matched by the tokens.
func categorize(tokens []string) map[string]bool {
	matched := make(map[string]bool)
	for _, token := range tokens {
		for category, keywords := range semanticCategories {
			for _, kw := range keywords {
				if token == kw {
					matched[category] = true
				}
			}
		}
	}
	return matched
}
