package game

import "time"

// Defaults are calibrated per tick, not per second: the simulation has no
// fixed rate and every constant is applied once per Step.
const (
	FieldWidth         = 1280.0
	FieldHeight        = 720.0
	MaxSpeed           = 3.2
	Acceleration       = 0.07 // seek force per unit of displacement
	Friction           = 0.97 // velocity multiplier per tick
	HeadingAttenuation = 0.12
	TensionBase        = 10.0
	TensionPerSpeed    = 6.0
	CutDriftScale      = 8.0 // horizontal drift per unit of wind.x
	CutFallRate        = 2.5
	CutSpinRate        = 0.04
	ContactThreshold   = 700 * time.Millisecond
	AttackDuration     = 1200 * time.Millisecond
	AttackCooldown     = 4500 * time.Millisecond
	HeightSlack        = 50.0
	AIReflexChance     = 0.05
	AIEngageRadius     = 300.0
	AIHoverOffset      = 120.0 // bots hover below their target
	AIWobbleAmplitude  = 50.0
	AIWobblePeriodMs   = 800.0
	AIPatrolSlots      = 4
	AIPatrolAmplitudeX = 100.0
	AIPatrolPeriodXMs  = 2000.0
	AIPatrolAmplitudeY = 50.0
	AIPatrolPeriodYMs  = 1500.0
	InputStep          = 40.0
	MarginX            = 30.0
	MarginTop          = 20.0
	MarginBottom       = 100.0
	WindGustX          = 0.003
	WindGustY          = 0.001
	WindLimitX         = 0.6
	WindLimitY         = 0.2
	AnchorSlots        = 5
	PlayerColor        = "#00f2ff"
	InitialWindX       = 0.12
	InitialWindY       = 0.04
	PlayerSpawnHeight  = 0.3 // fraction of field height
	BotSpawnHeight     = 0.6
	PatrolHeightFactor = 0.5
)

var NeonColors = []string{"#f472b6", "#4ade80", "#fbbf24", "#a78bfa", "#f87171"}

// Tuning is the immutable configuration every component reads from. It is
// built once at startup and passed by value.
type Tuning struct {
	Width, Height float64

	MaxSpeed           float64
	Acceleration       float64
	Friction           float64
	HeadingAttenuation float64
	TensionBase        float64
	TensionPerSpeed    float64

	CutDriftScale float64
	CutFallRate   float64
	CutSpinRate   float64

	ContactThreshold time.Duration
	AttackDuration   time.Duration
	AttackCooldown   time.Duration
	HeightSlack      float64

	AIReflexChance     float64
	AIEngageRadius     float64
	AIHoverOffset      float64
	AIWobbleAmplitude  float64
	AIWobblePeriodMs   float64
	AIPatrolSlots      int
	AIPatrolAmplitudeX float64
	AIPatrolPeriodXMs  float64
	AIPatrolAmplitudeY float64
	AIPatrolPeriodYMs  float64

	InputStep    float64
	MarginX      float64
	MarginTop    float64
	MarginBottom float64

	WindGust    Vec2
	WindLimit   Vec2
	InitialWind Vec2

	AnchorSlots int
}

func DefaultTuning() Tuning {
	return NewTuning(FieldWidth, FieldHeight)
}

// NewTuning returns the default constants for a field of the given size.
func NewTuning(width, height float64) Tuning {
	return Tuning{
		Width:              width,
		Height:             height,
		MaxSpeed:           MaxSpeed,
		Acceleration:       Acceleration,
		Friction:           Friction,
		HeadingAttenuation: HeadingAttenuation,
		TensionBase:        TensionBase,
		TensionPerSpeed:    TensionPerSpeed,
		CutDriftScale:      CutDriftScale,
		CutFallRate:        CutFallRate,
		CutSpinRate:        CutSpinRate,
		ContactThreshold:   ContactThreshold,
		AttackDuration:     AttackDuration,
		AttackCooldown:     AttackCooldown,
		HeightSlack:        HeightSlack,
		AIReflexChance:     AIReflexChance,
		AIEngageRadius:     AIEngageRadius,
		AIHoverOffset:      AIHoverOffset,
		AIWobbleAmplitude:  AIWobbleAmplitude,
		AIWobblePeriodMs:   AIWobblePeriodMs,
		AIPatrolSlots:      AIPatrolSlots,
		AIPatrolAmplitudeX: AIPatrolAmplitudeX,
		AIPatrolPeriodXMs:  AIPatrolPeriodXMs,
		AIPatrolAmplitudeY: AIPatrolAmplitudeY,
		AIPatrolPeriodYMs:  AIPatrolPeriodYMs,
		InputStep:          InputStep,
		MarginX:            MarginX,
		MarginTop:          MarginTop,
		MarginBottom:       MarginBottom,
		WindGust:           Vec2{WindGustX, WindGustY},
		WindLimit:          Vec2{WindLimitX, WindLimitY},
		InitialWind:        Vec2{InitialWindX, InitialWindY},
		AnchorSlots:        AnchorSlots,
	}
}
