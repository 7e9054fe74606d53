package config

type WorkerKeyStruct struct {
	PersistAnswersQueue     string
	PersistCompletionsQueue string
}

var WorkerKey = &WorkerKeyStruct{
	PersistAnswersQueue:     "persist_answers_queue",
	PersistCompletionsQueue: "persist_completions_queue",
}
