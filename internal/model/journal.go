package model

type Mood string

const (
	MoodHappy     Mood = "happy"
	MoodExcited   Mood = "excited"
	MoodCalm      Mood = "calm"
	MoodContent   Mood = "content"
	MoodNeutral   Mood = "neutral"
	MoodTired     Mood = "tired"
	MoodAnxious   Mood = "anxious"
	MoodUpset     Mood = "upset"
	MoodSad       Mood = "sad"
	MoodWithdrawn Mood = "withdrawn"
	MoodAngry     Mood = "angry"
	MoodFearful   Mood = "fearful"
	MoodConfused  Mood = "confused"
	MoodResistant Mood = "resistant"
)

var moodLabels = map[Mood]string{
	MoodHappy:     "Happy",
	MoodExcited:   "Excited",
	MoodCalm:      "Calm",
	MoodContent:   "Content",
	MoodNeutral:   "Neutral",
	MoodTired:     "Tired",
	MoodAnxious:   "Anxious",
	MoodUpset:     "Upset",
	MoodSad:       "Sad",
	MoodWithdrawn: "Withdrawn",
	MoodAngry:     "Angry",
	MoodFearful:   "Fearful",
	MoodConfused:  "Confused",
	MoodResistant: "Resistant to Visit",
}

func (m Mood) Valid() bool {
	_, ok := moodLabels[m]
	return ok
}

func (m Mood) Label() string {
	if l, ok := moodLabels[m]; ok {
		return l
	}
	return string(m)
}

type JournalEntry struct {
	JournalID        string   `json:"journal_id"`
	Title            string   `json:"title"`
	Content          string   `json:"content"`
	Date             string   `json:"date"`
	Mood             Mood     `json:"mood"`
	Location         string   `json:"location"`
	ChildrenInvolved []string `json:"children_involved"`
	Photos           []string `json:"photos,omitempty"`
	CreatedAt        string   `json:"created_at,omitempty"`
	UpdatedAt        string   `json:"updated_at,omitempty"`
}

type JournalInput struct {
	Title            string   `json:"title"`
	Content          string   `json:"content"`
	Date             string   `json:"date"`
	Mood             Mood     `json:"mood"`
	Location         string   `json:"location"`
	ChildrenInvolved []string `json:"children_involved"`
	Photos           []string `json:"photos,omitempty"`
}

// Validate checks the entry and fills the defaults the form would apply.
func (in *JournalInput) Validate() error {
	if err := required("title", in.Title); err != nil {
		return err
	}
	if err := required("content", in.Content); err != nil {
		return err
	}
	if _, err := checkDate("date", in.Date); err != nil {
		return err
	}
	if in.Mood == "" {
		in.Mood = MoodNeutral
	}
	if err := checkEnum("mood", in.Mood, Mood.Valid); err != nil {
		return err
	}
	if in.ChildrenInvolved == nil {
		in.ChildrenInvolved = []string{}
	}
	return nil
}
