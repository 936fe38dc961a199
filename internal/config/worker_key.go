package config

type WorkerKeyStruct struct {
	PersistMetricsQueue string
	PersistAuditQueue   string
}

var WorkerKey = &WorkerKeyStruct{
	PersistMetricsQueue: "persist_metrics_queue",
	PersistAuditQueue:   "persist_audit_queue",
}
