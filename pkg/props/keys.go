package props

// Every durable slot the game owns. Reload re-reads whatever the backend
// reports, but eager loading walks this list so a fresh world starts with a
// fully primed cache.
const (
	KeyGameActive          = "lootRush:gameActive"
	KeyTeamsFormed         = "lootRush:teamsFormed"
	KeyGamePaused          = "lootRush:gamePaused"
	KeyDebugMode           = "lootRush:debugMode"
	KeyCurrentRound        = "lootRush:currentRound"
	KeyRoundStartTick      = "lootRush:roundStartTick"
	KeyPausedAtTick        = "lootRush:pausedAtTick"
	KeyCrimsonScore        = "lootRush:crimsonScore"
	KeyAzureScore          = "lootRush:azureScore"
	KeyActiveChallenges    = "lootRush:activeChallenges"
	KeyCompletedChallenges = "lootRush:completedChallenges"
	KeyConfig              = "lootRush:config"
	KeyCrimsonPlayers      = "lootRush:crimsonPlayers"
	KeyAzurePlayers        = "lootRush:azurePlayers"
	KeyChestCrimson        = "lootRush:chestCrimsonLocation"
	KeyChestAzure          = "lootRush:chestAzureLocation"
	KeySpawnLocation       = "lootRush:spawnLocation"
)

// KeyPrefix namespaces every slot in the shared backing store.
const KeyPrefix = "lootRush:"

// LimitBytes is the hard per-value ceiling of the backing store. Serialized
// payloads over the limit are dropped, not truncated.
const LimitBytes = 16_000

var KnownKeys = []string{
	KeyGameActive,
	KeyTeamsFormed,
	KeyGamePaused,
	KeyDebugMode,
	KeyCurrentRound,
	KeyRoundStartTick,
	KeyPausedAtTick,
	KeyCrimsonScore,
	KeyAzureScore,
	KeyActiveChallenges,
	KeyCompletedChallenges,
	KeyConfig,
	KeyCrimsonPlayers,
	KeyAzurePlayers,
	KeyChestCrimson,
	KeyChestAzure,
	KeySpawnLocation,
}
