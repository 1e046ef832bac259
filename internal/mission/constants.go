package mission

// =============================================================================
// WORLD GEOMETRY
// =============================================================================

const (
	MapWidth  = 960.0
	MapHeight = 520.0

	// CliffLine and WaterLine split the map into the three terrain bands.
	CliffLine = 160.0
	WaterLine = 300.0

	// FieldMargin keeps bodies off the left, right and bottom edges.
	FieldMargin = 40.0
	// CliffOvershoot is how far above CliffLine a body may stand.
	CliffOvershoot = 20.0
	// CullOvershoot marks pursuers that wandered over the cliff edge.
	CullOvershoot = 15.0
)

// =============================================================================
// MISSION CLOCK
// =============================================================================

const (
	MissionDurationMs = 15 * 60 * 1000.0 // 15 minutes -> 15 in-world days
	MaxDays           = 15
	DeviceUnlockDay   = 4

	// NominalFrameMs is the frame length the per-frame tuning values assume.
	NominalFrameMs = 16.0

	// IntelCapacity bounds the intel feed.
	IntelCapacity = 6

	DefaultHandle = "cliff-keeper"
)

// =============================================================================
// PLAYER
// =============================================================================

const (
	PlayerWalkSpeed       = 0.2  // px/ms
	PlayerSwimSpeed       = 0.18 // px/ms
	PlayerDiveSpeed       = 0.15 // px/ms
	PlayerSprintFactor    = 1.35
	PlayerStaminaDrain    = 0.002 // per ms while sprinting on land
	PlayerStaminaRegen    = PlayerStaminaDrain * 0.6
	PlayerVelocitySmooth  = 0.012 // per ms, capped at 1
	GadgetRegenPerMs      = 0.01
	VitalMax              = 100.0
	PlayerSpawnX          = 140.0
	PlayerSpawnY          = WaterLine - 40
	DiveFocusDrainPerTide = 0.0015 // focus per ms per unit of tide
)

// =============================================================================
// ACTIONS
// =============================================================================

const (
	ScanCooldownMs   = 2000.0
	ScanRadius       = 80.0
	ScanEarlyBonus   = 1.4 // radius multiplier through DeviceUnlockDay
	ScanWarmDistance = 200.0

	PingCost           = 25.0
	PingStrongDistance = 160.0

	StrikeCooldownMs = 900.0
	StrikeRadius     = 46.0
	StunDurationMs   = 2500.0
	StrikeHeat       = 0.2

	CaptureRadius    = 32.0
	ReefCaptureBonus = 15.0
	ReefSpotDistance = CaptureRadius + 20
	PoliceZoneX      = MapWidth - 90
	PoliceZoneY      = CliffLine - 30
	PoliceZoneRadius = 50.0
	PulseStartRadius = 20.0
	PulseGrowthPerMs = 0.18
	PulseFadePerMs   = 0.0004
)

// =============================================================================
// PURSUERS
// =============================================================================

const (
	DetectionRadius      = 60.0
	CarryDetectionFactor = 1.4

	SuitBaseSpeed       = 0.05 // px/ms
	SuitMaxSpeed        = 0.12 // px/ms
	WaterVariantFactor  = 0.9
	SuitHeatSpeedFactor = 0.5
	SuitCarrySpeedBonus = 0.5
	SuitHeatGainPerMs   = 0.00005
	SuitMinHeat         = 0.1
	SuitMaxSpawnHeat    = 0.8
	MaxHeat             = 2.0

	ChaseAccel        = 0.0022 // steering per ms while chasing
	WanderAccel       = 0.0012 // steering per ms otherwise
	ChaseTideNudge    = 0.001  // velocity added per unit of tide per nominal frame while chasing
	ChaseTideSpeedCap = 0.01   // speed cap raise per unit of tide while chasing
	RecoverSpeedScale = 0.5

	ChaseMemoryMs      = 1800.0
	InvestigateMs      = 2500.0
	RecoverMs          = 1500.0
	PatrolMs           = 2000.0
	AnchorJitter       = 40.0
	SpawnTimerInitial  = 2000.0
	SpawnIntervalMs    = 4600.0
	SpawnJitterMin     = 0.7
	SpawnJitterMax     = 1.3
	ShoreSpawnChance   = 0.6
	ThreatSpawnPerTick = 10.0 // spawn timer ms removed per unit of threat per nominal frame
	MaxSuits           = 14
)

// =============================================================================
// THREAT & VITALS
// =============================================================================

const (
	ExposureFocusPerMs     = 0.01
	ExposureIntegrityPerMs = 0.003
	ExposureThreatPerMs    = 0.0004
	InitialThreat          = 0.1
	MaxThreat              = 1.5

	TideMean      = 0.5
	TideAmplitude = 0.35
	TidePeriodMs  = 90000.0
)
