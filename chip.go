// chip.go - Sound chip identities and the constant lookup tables that map
// command opcodes, data-block types and extra-header chip ids to them.

package vgm

// ChipName identifies a sound chip model. The string values are the keys
// used in the structured (JSON) forms.
type ChipName string

const (
	ChipSN76489        ChipName = "sn76489"
	ChipGameGearStereo ChipName = "gameGearStereo"
	ChipYM2413         ChipName = "ym2413"
	ChipYM2612         ChipName = "ym2612"
	ChipYM2151         ChipName = "ym2151"
	ChipSegaPCM        ChipName = "segaPcm"
	ChipRF5C68         ChipName = "rf5c68"
	ChipYM2203         ChipName = "ym2203"
	ChipYM2608         ChipName = "ym2608"
	ChipYM2610         ChipName = "ym2610"
	ChipYM3812         ChipName = "ym3812"
	ChipYM3526         ChipName = "ym3526"
	ChipY8950          ChipName = "y8950"
	ChipYMF262         ChipName = "ymf262"
	ChipYMF278B        ChipName = "ymf278b"
	ChipYMF271         ChipName = "ymf271"
	ChipYMZ280B        ChipName = "ymz280b"
	ChipRF5C164        ChipName = "rf5c164"
	ChipPWM            ChipName = "pwm"
	ChipAY8910         ChipName = "ay8910"
	ChipGameBoyDMG     ChipName = "gameBoyDmg"
	ChipNESAPU         ChipName = "nesApu"
	ChipMultiPCM       ChipName = "multiPcm"
	ChipUPD7759        ChipName = "upd7759"
	ChipOKIM6258       ChipName = "okim6258"
	ChipOKIM6295       ChipName = "okim6295"
	ChipK051649        ChipName = "k051649"
	ChipK054539        ChipName = "k054539"
	ChipHuC6280        ChipName = "huc6280"
	ChipC140           ChipName = "c140"
	ChipK053260        ChipName = "k053260"
	ChipPokey          ChipName = "pokey"
	ChipQSound         ChipName = "qsound"
	ChipSCSP           ChipName = "scsp"
	ChipWonderSwan     ChipName = "wonderSwan"
	ChipVSU            ChipName = "vsu"
	ChipSAA1099        ChipName = "saa1099"
	ChipES5503         ChipName = "es5503"
	ChipES5506         ChipName = "es5506"
	ChipX1010          ChipName = "x1_010"
	ChipC352           ChipName = "c352"
	ChipGA20           ChipName = "ga20"

	ChipUnknown ChipName = "unknown"
)

// chipIDNames is indexed by the chip id used in extra-header tables; the
// order follows the clock fields of the main header.
var chipIDNames = [...]ChipName{
	ChipSN76489, ChipYM2413, ChipYM2612, ChipYM2151, ChipSegaPCM, ChipRF5C68, ChipYM2203,
	ChipYM2608, ChipYM2610, ChipYM3812, ChipYM3526, ChipY8950, ChipYMF262, ChipYMF278B,
	ChipYMF271, ChipYMZ280B, ChipRF5C164, ChipPWM, ChipAY8910, ChipGameBoyDMG, ChipNESAPU,
	ChipMultiPCM, ChipUPD7759, ChipOKIM6258, ChipOKIM6295, ChipK051649, ChipK054539,
	ChipHuC6280, ChipC140, ChipK053260, ChipPokey, ChipQSound, ChipSCSP, ChipWonderSwan,
	ChipVSU, ChipSAA1099, ChipES5503, ChipES5506, ChipX1010, ChipC352, ChipGA20,
}

// ChipIDName maps an extra-header chip id to its chip, or ChipUnknown.
func ChipIDName(id uint8) ChipName {
	if int(id) < len(chipIDNames) {
		return chipIDNames[id]
	}
	return ChipUnknown
}

// ChipID is the inverse of ChipIDName.
func ChipID(chip ChipName) (uint8, bool) {
	for i, c := range chipIDNames {
		if c == chip {
			return uint8(i), true
		}
	}
	return 0, false
}

// opcodeChips maps write-register opcodes to their chip. Opcodes absent from
// the map are not register writes.
var opcodeChips = map[byte]ChipName{
	0x30: ChipSN76489, 0x50: ChipSN76489,
	0x3F: ChipGameGearStereo, 0x4F: ChipGameGearStereo,
	0x51: ChipYM2413, 0xA1: ChipYM2413,
	0x52: ChipYM2612, 0x53: ChipYM2612, 0xA2: ChipYM2612, 0xA3: ChipYM2612,
	0x54: ChipYM2151, 0xA4: ChipYM2151,
	0x55: ChipYM2203, 0xA5: ChipYM2203,
	0x56: ChipYM2608, 0x57: ChipYM2608, 0xA6: ChipYM2608, 0xA7: ChipYM2608,
	0x58: ChipYM2610, 0x59: ChipYM2610, 0xA8: ChipYM2610, 0xA9: ChipYM2610,
	0x5A: ChipYM3812, 0xAA: ChipYM3812,
	0x5B: ChipYM3526, 0xAB: ChipYM3526,
	0x5C: ChipY8950, 0xAC: ChipY8950,
	0x5D: ChipYMZ280B, 0xAD: ChipYMZ280B,
	0x5E: ChipYMF262, 0x5F: ChipYMF262, 0xAE: ChipYMF262, 0xAF: ChipYMF262,
	0xA0: ChipAY8910,
	0xB0: ChipRF5C68,
	0xB1: ChipRF5C164,
	0xB2: ChipPWM,
	0xB3: ChipGameBoyDMG,
	0xB4: ChipNESAPU,
	0xB5: ChipMultiPCM,
	0xB6: ChipUPD7759,
	0xB7: ChipOKIM6258,
	0xB8: ChipOKIM6295,
	0xB9: ChipHuC6280,
	0xBA: ChipK053260,
	0xBB: ChipPokey,
	0xBC: ChipWonderSwan,
	0xBD: ChipSAA1099,
	0xBE: ChipES5506,
	0xBF: ChipGA20,
	0xC0: ChipSegaPCM,
	0xC1: ChipRF5C68,
	0xC2: ChipRF5C164,
	0xC3: ChipMultiPCM,
	0xC4: ChipQSound,
	0xC5: ChipSCSP,
	0xC6: ChipWonderSwan,
	0xC7: ChipVSU,
	0xC8: ChipX1010,
	0xD0: ChipYMF278B,
	0xD1: ChipYMF271,
	0xD2: ChipK051649,
	0xD3: ChipK054539,
	0xD4: ChipC140,
	0xD5: ChipES5503,
	0xD6: ChipES5506,
	0xE1: ChipC352,
}

// OpcodeChip returns the chip addressed by a write-register opcode.
func OpcodeChip(op byte) (ChipName, bool) {
	c, ok := opcodeChips[op]
	return c, ok
}

// blockTypeChips covers the uncompressed stream (0x00-0x3F), ROM dump
// (0x80-0xBF) and RAM write (0xC0-0xFF) data-block types.
var blockTypeChips = map[byte]ChipName{
	0x00: ChipYM2612,
	0x01: ChipRF5C68,
	0x02: ChipRF5C164,
	0x03: ChipPWM,
	0x04: ChipOKIM6258,
	0x05: ChipHuC6280,
	0x06: ChipSCSP,
	0x07: ChipNESAPU,

	0x80: ChipSegaPCM,
	0x81: ChipYM2608,
	0x82: ChipYM2610, // ADPCM-A
	0x83: ChipYM2610, // ADPCM-B
	0x84: ChipYMF278B,
	0x85: ChipYMF271,
	0x86: ChipYMZ280B,
	0x87: ChipYMF278B, // RAM
	0x88: ChipY8950,
	0x89: ChipMultiPCM,
	0x8A: ChipUPD7759,
	0x8B: ChipOKIM6295,
	0x8C: ChipK054539,
	0x8D: ChipC140,
	0x8E: ChipK053260,
	0x8F: ChipQSound,
	0x90: ChipES5506,
	0x91: ChipX1010,
	0x92: ChipC352,
	0x93: ChipGA20,

	0xC0: ChipRF5C68,
	0xC1: ChipRF5C164,
	0xC2: ChipNESAPU,

	0xE0: ChipSCSP,
	0xE1: ChipES5503,
}

// BlockTypeChip returns the chip a data block feeds, or ChipUnknown.
// Compressed stream types 0x40-0x7E resolve like their 0x00-0x3E counterparts.
func BlockTypeChip(blockType byte) ChipName {
	if blockType >= 0x40 && blockType < 0x7F {
		blockType -= 0x40
	}
	if c, ok := blockTypeChips[blockType]; ok {
		return c
	}
	return ChipUnknown
}
