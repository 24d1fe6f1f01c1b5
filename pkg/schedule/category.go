package schedule

// EventCategory classifies the event being scheduled. It parameterizes which
// hours and days are considered desirable by the generator and the scorers.
type EventCategory string

// Event categories.
const (
	CategoryMeeting   EventCategory = "meeting"
	CategoryPersonal  EventCategory = "personal"
	CategoryWork      EventCategory = "work"
	CategorySocial    EventCategory = "social"
	CategoryHealth    EventCategory = "health"
	CategoryFocusTime EventCategory = "focus_time"
	CategoryBreak     EventCategory = "break"
	CategoryOther     EventCategory = "other"
)

var knownCategories = map[EventCategory]bool{
	CategoryMeeting:   true,
	CategoryPersonal:  true,
	CategoryWork:      true,
	CategorySocial:    true,
	CategoryHealth:    true,
	CategoryFocusTime: true,
	CategoryBreak:     true,
	CategoryOther:     true,
}

// Valid reports whether c is a known category. The empty category is not
// valid on the wire; decoding defaults it to CategoryOther.
func (c EventCategory) Valid() bool {
	return knownCategories[c]
}

// Neutral reports whether the category carries no scheduling signal.
func (c EventCategory) Neutral() bool {
	return c == "" || c == CategoryOther
}
