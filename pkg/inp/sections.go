package inp

import "strings"

// Section names as they appear between brackets.
const (
	secTitle       = "TITLE"
	secJunctions   = "JUNCTIONS"
	secReservoirs  = "RESERVOIRS"
	secTanks       = "TANKS"
	secPipes       = "PIPES"
	secPumps       = "PUMPS"
	secValves      = "VALVES"
	secEmitters    = "EMITTERS"
	secCurves      = "CURVES"
	secPatterns    = "PATTERNS"
	secEnergy      = "ENERGY"
	secStatus      = "STATUS"
	secControls    = "CONTROLS"
	secRules       = "RULES"
	secDemands     = "DEMANDS"
	secQuality     = "QUALITY"
	secReactions   = "REACTIONS"
	secSources     = "SOURCES"
	secMixing      = "MIXING"
	secOptions     = "OPTIONS"
	secTimes       = "TIMES"
	secReport      = "REPORT"
	secCoordinates = "COORDINATES"
	secVertices    = "VERTICES"
	secLabels      = "LABELS"
	secBackdrop    = "BACKDROP"
	secTags        = "TAGS"
	secEnd         = "END"
)

var knownSections = map[string]bool{
	secTitle: true, secJunctions: true, secReservoirs: true, secTanks: true,
	secPipes: true, secPumps: true, secValves: true, secEmitters: true,
	secCurves: true, secPatterns: true, secEnergy: true, secStatus: true,
	secControls: true, secRules: true, secDemands: true, secQuality: true,
	secReactions: true, secSources: true, secMixing: true, secOptions: true,
	secTimes: true, secReport: true, secCoordinates: true, secVertices: true,
	secLabels: true, secBackdrop: true, secTags: true, secEnd: true,
}

// readOrder is the decode order. Later sections refer to entities declared
// by earlier ones.
var readOrder = []string{
	secOptions, secTimes, secCurves, secPatterns, secJunctions, secReservoirs,
	secTanks, secPipes, secPumps, secValves, secCoordinates, secSources,
	secStatus, secControls, secRules, secReactions, secTitle, secEnergy,
	secDemands, secEmitters, secQuality, secMixing, secReport, secVertices,
	secLabels, secBackdrop, secTags,
}

// normalizeSection maps a bracketed token onto a known section name,
// tolerating a missing or extra trailing S.
func normalizeSection(token string) (string, bool) {
	t := strings.ToUpper(strings.TrimSpace(token))
	if knownSections[t] {
		return t, true
	}
	if knownSections[t+"S"] {
		return t + "S", true
	}
	if trimmed := strings.TrimSuffix(t, "S"); trimmed != t && knownSections[trimmed] {
		return trimmed, true
	}
	return t, false
}
