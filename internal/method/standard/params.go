package standard

import (
	"github.com/CryoKynase/wheel-lacing-app/internal/method"
	"github.com/CryoKynase/wheel-lacing-app/internal/models"
)

// Parameter keys.
const (
	KeyCrosses   = "crosses"
	KeyStartSide = "startSide"
	KeyLaceOrder = "laceOrder"
	KeyValveRule = "valveRule"
)

// LaceOrder chooses which head orientation the first lacing pair uses.
type LaceOrder string

const (
	HeadsOutFirst LaceOrder = "headsOutFirst"
	HeadsInFirst  LaceOrder = "headsInFirst"
)

// ValveRule chooses how the rim sequence is aligned against the valve.
type ValveRule string

const (
	ClearValve                ValveRule = "clearValve"
	AlignKeySpokeRightOfValve ValveRule = "alignKeySpokeRightOfValve"
)

// MaxCrossesParam bounds the crosses parameter for every supported hole count.
const MaxCrossesParam = 8

// Params is the typed parameter set the generator runs on.
type Params struct {
	Crosses   int
	StartSide models.Side
	LaceOrder LaceOrder
	ValveRule ValveRule
}

// DefaultParams is a 3-cross wheel started on the right flange, heads out
// first, valve left clear.
var DefaultParams = Params{
	Crosses:   3,
	StartSide: models.SideRight,
	LaceOrder: HeadsOutFirst,
	ValveRule: ClearValve,
}

var paramDefs = []method.ParamDef{
	{
		Key:        KeyCrosses,
		Kind:       method.KindNumber,
		Label:      "Crosses",
		HelperText: "How many spokes each spoke crosses between hub and rim. 0 is radial.",
		Default:    float64(DefaultParams.Crosses),
		Min:        0,
		Max:        MaxCrossesParam,
		Step:       1,
	},
	{
		Key:     KeyStartSide,
		Kind:    method.KindSelect,
		Label:   "Start side",
		Default: string(DefaultParams.StartSide),
		Options: []method.Option{
			{Value: string(models.SideRight), Label: "Right flange (DS)"},
			{Value: string(models.SideLeft), Label: "Left flange (NDS)"},
		},
	},
	{
		Key:     KeyLaceOrder,
		Kind:    method.KindSelect,
		Label:   "Lace order",
		Default: string(DefaultParams.LaceOrder),
		Options: []method.Option{
			{Value: string(HeadsOutFirst), Label: "Heads out first"},
			{Value: string(HeadsInFirst), Label: "Heads in first"},
		},
	},
	{
		Key:        KeyValveRule,
		Kind:       method.KindSelect,
		Label:      "Valve rule",
		HelperText: "Align the key spoke just right of the valve, or leave the valve area clear.",
		Default:    string(DefaultParams.ValveRule),
		Options: []method.Option{
			{Value: string(ClearValve), Label: "Clear valve"},
			{Value: string(AlignKeySpokeRightOfValve), Label: "Key spoke right of valve"},
		},
	},
}

// ParamDefs returns a copy of the standard method's parameter schema.
func ParamDefs() []method.ParamDef {
	out := make([]method.ParamDef, len(paramDefs))
	copy(out, paramDefs)
	return out
}

// ResolveParams coerces a raw mapping into Params. It never fails.
func ResolveParams(raw map[string]any) Params {
	return fromValues(method.Resolve(paramDefs, raw))
}

func fromValues(v method.Values) Params {
	return Params{
		Crosses:   v.Int(KeyCrosses),
		StartSide: models.Side(v.Select(KeyStartSide)),
		LaceOrder: LaceOrder(v.Select(KeyLaceOrder)),
		ValveRule: ValveRule(v.Select(KeyValveRule)),
	}
}

// Values returns p in schema form.
func (p Params) Values() method.Values {
	return method.Values{
		KeyCrosses:   float64(p.Crosses),
		KeyStartSide: string(p.StartSide),
		KeyLaceOrder: string(p.LaceOrder),
		KeyValveRule: string(p.ValveRule),
	}
}
