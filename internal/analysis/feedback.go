package analysis

import "github.com/verte-zerg/podium/internal/model"

// Tone grades a review note.
type Tone int

const (
	ToneGood Tone = iota
	ToneWarn
	ToneBad
)

// Note is one line of post-session feedback.
type Note struct {
	Tone Tone
	Text string
}

const (
	quietVolume = 15.0
	loudVolume  = 70.0
)

// Review turns a summary into feedback notes, in display order.
func Review(s Summary) []Note {
	var notes []Note
	switch {
	case s.AvgVolume < quietVolume:
		notes = append(notes, Note{ToneBad, "Volume too low. Project your voice more."})
	case s.AvgVolume < loudVolume:
		notes = append(notes, Note{ToneGood, "Volume is good."})
	default:
		notes = append(notes, Note{ToneWarn, "Volume is loud. Make sure it suits the room."})
	}
	switch {
	case s.SpeakingRatio < 0.5:
		notes = append(notes, Note{ToneWarn, "Low speaking ratio. Work on fluency and preparation."})
	case s.SpeakingRatio >= 0.85:
		notes = append(notes, Note{ToneWarn, "Almost no pauses. Give the audience time to absorb key points."})
	}
	if s.GoodPauses >= 3 {
		notes = append(notes, Note{ToneGood, "Great use of pauses for emphasis."})
	}
	if s.LongSilences > 3 {
		notes = append(notes, Note{ToneBad, "Many long silences. Practise transitions between points."})
	}
	return notes
}

// VolumeLabel names a live meter level.
func VolumeLabel(level float64) string {
	switch {
	case level < 15:
		return "too quiet"
	case level < 30:
		return "quiet"
	case level < 70:
		return "good"
	case level < 85:
		return "loud"
	default:
		return "too loud"
	}
}

// Record converts the summary into its persisted form.
func (s Summary) Record() *model.Analysis {
	return &model.Analysis{
		AvgVolume:          s.AvgVolume,
		SpeakingRatio:      s.SpeakingRatio,
		TotalSilenceEvents: s.LongSilences,
		GoodPauses:         s.GoodPauses,
		PeakVolume:         s.PeakVolume,
	}
}
