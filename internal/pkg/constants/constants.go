package constants

const (
	CookieKeySecretToken = "secret_token"

	CtxKeyRunID = "run_id"
)

// Viper configuration keys. Defaults are registered in config.Init.
const (
	ViperKeyListenAddr  = "listen_addr"
	ViperKeyDatabaseDSN = "database.dsn"
	ViperSecretKey      = "admin.secret"

	ViperKeyLexicalThreshold    = "classifier.lexical_threshold"
	ViperKeySemanticThreshold   = "classifier.semantic_threshold"
	ViperKeyTopK                = "classifier.top_k"
	ViperKeyWorkers             = "classifier.workers"
	ViperKeyFallbackConcurrency = "classifier.fallback_concurrency"
	ViperKeyFallbackTimeout     = "classifier.fallback_timeout"
	ViperKeyRankerBaseURL       = "classifier.ranker_base_url"

	ViperKeyDefaultHeating         = "power.default_heating_w_per_m2"
	ViperKeyDefaultCooling         = "power.default_cooling_w_per_m2"
	ViperKeyDefaultVentilation     = "power.default_ventilation_rate"
	ViperKeyDefaultVentilationUnit = "power.default_ventilation_unit"

	ViperKeyLaborFactor       = "cost.labor_factor"
	ViperKeyOverheadFactor    = "cost.overhead_profit_factor"
	ViperKeyRegionalFactor    = "cost.regional_factor"
	ViperKeyContingencyFactor = "cost.contingency_factor"
	ViperKeyRequiredSubgroups = "cost.required_subgroups"

	ViperKeyBKIIndexURL = "bki.index_url"
)
