package domain

const (
	StageNew       = "new"
	StageContacted = "contacted"
	StageBooked    = "booked"
	StageQualified = "qualified"
	StageWon       = "won"
	StageLost      = "lost"
)

var knownStages = map[string]struct{}{
	StageNew:       {},
	StageContacted: {},
	StageBooked:    {},
	StageQualified: {},
	StageWon:       {},
	StageLost:      {},
}

func IsKnownStage(stage string) bool {
	_, ok := knownStages[stage]
	return ok
}
