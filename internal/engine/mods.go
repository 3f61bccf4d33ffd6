package engine

import "strings"

// Mods es el bitmask de modificadores del juego (mismo layout que el cliente).
type Mods uint32

const (
	ModNoFail Mods = 1 << iota
	ModEasy
	ModTouchDevice
	ModHidden
	ModHardRock
	ModSuddenDeath
	ModDoubleTime
	ModRelax
	ModHalfTime
	ModNightcore
	ModFlashlight
	ModAutoplay
	ModSpunOut
	ModAutopilot
	ModPerfect
	ModKey4
	ModKey5
	ModKey6
	ModKey7
	ModKey8
	ModFadeIn
	ModRandom
	ModCinema
	ModTarget
	ModKey9
	ModKeyCoop
	ModKey1
	ModKey3
	ModKey2
	ModScoreV2
	ModMirror
)

// FreeModToken: sentinel, la resolución no pasa por el bitmask.
const FreeModToken = "FreeMod"

// mnemónicos de dos letras; Target es el único alias largo de display.
var modCodes = map[Mods]string{
	ModNoFail:      "NF",
	ModEasy:        "EZ",
	ModTouchDevice: "TD",
	ModHidden:      "HD",
	ModHardRock:    "HR",
	ModSuddenDeath: "SD",
	ModDoubleTime:  "DT",
	ModRelax:       "RX",
	ModHalfTime:    "HT",
	ModNightcore:   "NC",
	ModFlashlight:  "FL",
	ModAutoplay:    "AT",
	ModSpunOut:     "SO",
	ModAutopilot:   "AP",
	ModPerfect:     "PF",
	ModKey4:        "4K",
	ModKey5:        "5K",
	ModKey6:        "6K",
	ModKey7:        "7K",
	ModKey8:        "8K",
	ModFadeIn:      "FI",
	ModRandom:      "RD",
	ModCinema:      "LM",
	ModTarget:      "Target",
	ModKey9:        "9K",
	ModKeyCoop:     "CO",
	ModKey1:        "1K",
	ModKey3:        "3K",
	ModKey2:        "2K",
	ModScoreV2:     "V2",
	ModMirror:      "MR",
}

// orden canónico de serialización (sólo display, no resuelve conflictos)
var modOrder = map[Mods]int{
	ModNoFail:      0,
	ModEasy:        1,
	ModHidden:      2,
	ModDoubleTime:  3,
	ModNightcore:   3,
	ModHalfTime:    3,
	ModHardRock:    4,
	ModSpunOut:     5,
	ModSuddenDeath: 5,
	ModPerfect:     5,
	ModFlashlight:  6,
	ModTouchDevice: 7,
}

// modClears: bit activo → bits que apaga. HR apaga EZ (y no al revés);
// DT/HT/NC se apagan entre sí; NF gana contra SD/PF/RX/AP.
var modClears = map[Mods]Mods{
	ModNoFail:      ModSuddenDeath | ModPerfect | ModRelax | ModAutopilot,
	ModHardRock:    ModEasy,
	ModFadeIn:      ModHidden | ModFlashlight,
	ModSuddenDeath: ModNoFail | ModPerfect,
	ModPerfect:     ModNoFail | ModSuddenDeath,
	ModDoubleTime:  ModHalfTime | ModNightcore,
	ModNightcore:   ModHalfTime | ModDoubleTime,
	ModHalfTime:    ModDoubleTime | ModNightcore,
	ModRelax:       ModAutopilot | ModNoFail,
	ModAutopilot:   ModSpunOut | ModRelax | ModNoFail,
	ModSpunOut:     ModAutopilot,
}

var codeToMod = func() map[string]Mods {
	m := make(map[string]Mods, len(modCodes))
	for mod, code := range modCodes {
		m[strings.ToUpper(code)] = mod
	}
	return m
}()

// ParseMods convierte pares de dos letras en bits; pares desconocidos
// aportan cero (tolerancia, no error).
func ParseMods(s string) Mods {
	s = strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(s), " ", ""))
	var mods Mods
	for i := 0; i+2 <= len(s); i += 2 {
		mods |= codeToMod[s[i:i+2]]
	}
	return mods
}

// ResolveConflicts aplica la tabla de exclusión como pasada de punto fijo,
// recorriendo los bits activos en orden ascendente.
func (m Mods) ResolveConflicts() Mods {
	for {
		prev := m
		for bit := Mods(1); bit != 0 && bit <= m; bit <<= 1 {
			if m&bit == 0 {
				continue
			}
			m &^= modClears[bit]
		}
		if m == prev {
			return m
		}
	}
}

// String serializa en orden de prioridad, separado por espacios.
func (m Mods) String() string {
	type entry struct {
		order int
		bit   Mods
	}
	var enabled []entry
	for bit := Mods(1); bit != 0 && bit <= m; bit <<= 1 {
		if m&bit == 0 {
			continue
		}
		ord, ok := modOrder[bit]
		if !ok {
			ord = len(modOrder) // los no listados van al final, en orden de bit
		}
		enabled = append(enabled, entry{order: ord, bit: bit})
	}
	// insertion sort estable; la lista es diminuta
	for i := 1; i < len(enabled); i++ {
		for j := i; j > 0 && enabled[j].order < enabled[j-1].order; j-- {
			enabled[j], enabled[j-1] = enabled[j-1], enabled[j]
		}
	}
	parts := make([]string, 0, len(enabled))
	for _, e := range enabled {
		parts = append(parts, modCodes[e.bit])
	}
	return strings.Join(parts, " ")
}

// ResolveMod mapea el token pedido al string canónico que se aplica al lobby.
// freeMod corta antes del bitmask (el jugador elige sus propios mods).
func ResolveMod(requested, defaultMod string, freeMod bool) (string, bool) {
	if freeMod || strings.EqualFold(strings.TrimSpace(requested), "FM") {
		return FreeModToken, true
	}
	def := ParseMods(defaultMod)
	req := ParseMods(requested) &^ def
	merged := (def | req).ResolveConflicts()
	if merged == 0 {
		return strings.ToUpper(strings.TrimSpace(defaultMod)), false
	}
	return merged.String(), false
}
