package config

type WorkerKeyStruct struct {
	PersistProgressQueue string
	ActivityChannel      string
}

var WorkerKey = &WorkerKeyStruct{
	PersistProgressQueue: "persist_progress_queue",
	ActivityChannel:      "activity:events",
}
