package dsc

import "fmt"

// ids the timeline builder cares about
const (
	OpTime  int32 = 1
	OpLyric int32 = 24
)

// command identifier with the number of 4-byte parameter words it carries
type Opcode struct {
	ID    int32
	Name  string
	Words int
}

// payload size in bytes
func (o Opcode) Size() int {
	return o.Words * 4
}

// read-only id -> opcode lookup
type Table struct {
	byID   map[int32]Opcode
	byName map[string]Opcode
}

// builds a table, rejecting duplicate ids and negative word counts
func NewTable(opcodes []Opcode) (*Table, error) {
	t := &Table{
		byID:   make(map[int32]Opcode, len(opcodes)),
		byName: make(map[string]Opcode, len(opcodes)),
	}
	for _, op := range opcodes {
		if _, ok := t.byID[op.ID]; ok {
			return nil, fmt.Errorf("duplicate opcode id %d (%s)", op.ID, op.Name)
		}
		if op.Words < 0 {
			return nil, fmt.Errorf("opcode %d (%s) has negative word count %d", op.ID, op.Name, op.Words)
		}
		t.byID[op.ID] = op
		if _, ok := t.byName[op.Name]; !ok {
			t.byName[op.Name] = op
		}
	}
	return t, nil
}

func (t *Table) Lookup(id int32) (Opcode, bool) {
	op, ok := t.byID[id]
	return op, ok
}

func (t *Table) LookupName(name string) (Opcode, bool) {
	op, ok := t.byName[name]
	return op, ok
}

func (t *Table) Len() int {
	return len(t.byID)
}

// Future Tone command set
var futureTone = []Opcode{
	{0, "END", 0},
	{1, "TIME", 1},
	{2, "MIKU_MOVE", 4},
	{3, "MIKU_ROT", 2},
	{4, "MIKU_DISP", 2},
	{5, "MIKU_SHADOW", 2},
	{6, "TARGET", 7},
	{7, "SET_MOTION", 4},
	{8, "SET_PLAYDATA", 2},
	{9, "EFFECT", 6},
	{10, "FADEIN_FIELD", 2},
	{11, "EFFECT_OFF", 1},
	{12, "SET_CAMERA", 6},
	{13, "DATA_CAMERA", 2},
	{14, "CHANGE_FIELD", 1},
	{15, "HIDE_FIELD", 1},
	{16, "MOVE_FIELD", 3},
	{17, "FADEOUT_FIELD", 2},
	{18, "EYE_ANIM", 3},
	{19, "MOUTH_ANIM", 5},
	{20, "HAND_ANIM", 5},
	{21, "LOOK_ANIM", 4},
	{22, "EXPRESSION", 4},
	{23, "LOOK_CAMERA", 5},
	{24, "LYRIC", 2},
	{25, "MUSIC_PLAY", 0},
	{26, "MODE_SELECT", 2},
	{27, "EDIT_MOTION", 4},
	{28, "BAR_TIME_SET", 2},
	{29, "SHADOWHEIGHT", 2},
	{30, "EDIT_FACE", 1},
	{31, "MOVE_CAMERA", 21},
	{32, "PV_END", 0},
	{33, "SHADOWPOS", 3},
	{34, "EDIT_LYRIC", 2},
	{35, "EDIT_TARGET", 5},
	{36, "EDIT_MOUTH", 1},
	{37, "SET_CHARA", 1},
	{38, "EDIT_MOVE", 7},
	{39, "EDIT_SHADOW", 1},
	{40, "EDIT_EYELID", 1},
	{41, "EDIT_EYE", 2},
	{42, "EDIT_ITEM", 1},
	{43, "EDIT_EFFECT", 2},
	{44, "EDIT_DISP", 1},
	{45, "EDIT_HAND_ANIM", 2},
	{46, "AIM", 3},
	{47, "HAND_ITEM", 3},
	{48, "EDIT_BLUSH", 1},
	{49, "NEAR_CLIP", 2},
	{50, "CLOTH_WET", 2},
	{51, "LIGHT_ROT", 3},
	{52, "SCENE_FADE", 6},
	{53, "TONE_TRANS", 6},
	{54, "SATURATE", 1},
	{55, "FADE_MODE", 1},
	{56, "AUTO_BLINK", 2},
	{57, "PARTS_DISP", 3},
	{58, "TARGET_FLYING_TIME", 1},
	{59, "CHARA_SIZE", 2},
	{60, "CHARA_HEIGHT_ADJUST", 2},
	{61, "ITEM_ANIM", 4},
	{62, "CHARA_POS_ADJUST", 4},
	{63, "SCENE_ROT", 1},
	{64, "EDIT_MOT_SMOOTH_LEN", 2},
	{65, "PV_BRANCH_MODE", 1},
	{66, "DATA_CAMERA_START", 2},
	{67, "MOVIE_PLAY", 1},
	{68, "MOVIE_DISP", 1},
	{69, "WIND", 3},
	{70, "OSAGE_STEP", 3},
	{71, "OSAGE_MV_CCL", 3},
	{72, "CHARA_COLOR", 2},
	{73, "SE_EFFECT", 1},
	{74, "EDIT_MOVE_XYZ", 9},
	{75, "EDIT_EYELID_ANIM", 3},
	{76, "EDIT_INSTRUMENT_ITEM", 2},
	{77, "EDIT_MOTION_LOOP", 4},
	{78, "EDIT_EXPRESSION", 2},
	{79, "EDIT_EYE_ANIM", 3},
	{80, "EDIT_MOUTH_ANIM", 2},
	{81, "EDIT_CAMERA", 24},
	{82, "EDIT_MODE_SELECT", 1},
	{83, "PV_END_FADEOUT", 2},
	{84, "TARGET_FLAG", 1},
	{85, "ITEM_ANIM_ATTACH", 3},
	{86, "SHADOW_RANGE", 1},
	{87, "HAND_SCALE", 3},
	{88, "LIGHT_POS", 4},
	{89, "FACE_TYPE", 1},
	{90, "SHADOW_CAST", 2},
	{91, "EDIT_MOTION_F", 6},
	{92, "FOG", 3},
	{93, "BLOOM", 2},
	{94, "COLOR_COLLE", 3},
	{95, "DOF", 3},
	{96, "CHARA_ALPHA", 4},
	{97, "AOTO_CAP", 1},
	{98, "MAN_CAP", 1},
	{99, "TOON", 3},
	{100, "SHIMMER", 3},
	{101, "ITEM_ALPHA", 4},
	{102, "MOVIE_CUT_CHG", 1},
	{103, "CHARA_LIGHT", 3},
	{104, "STAGE_LIGHT", 3},
	{105, "AGEAGE_CTRL", 8},
	{106, "PSE", 2},
}

var defaultTable = mustTable(futureTone)

func mustTable(opcodes []Opcode) *Table {
	t, err := NewTable(opcodes)
	if err != nil {
		panic(err)
	}
	return t
}

// built-in table used when no table is given
func DefaultTable() *Table {
	return defaultTable
}

// looks up id in the built-in table
func Lookup(id int32) (Opcode, bool) {
	return defaultTable.Lookup(id)
}
