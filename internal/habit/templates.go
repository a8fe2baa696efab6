package habit

import "fmt"

// Template is a curated habit with a fixed 5-level ladder.
type Template struct {
	ID          string       `json:"id"`
	Name        string       `json:"name"`
	Emoji       string       `json:"emoji"`
	Description string       `json:"description"`
	Levels      []HabitLevel `json:"levels"`
}

// CustomEmoji marks user-authored habits.
const CustomEmoji = "🎯"

const defaultDaysRequired = 7

func ladder(tasks [5]string) []HabitLevel {
	levels := make([]HabitLevel, 0, len(tasks))
	for i, task := range tasks {
		levels = append(levels, HabitLevel{Level: i + 1, Task: task, DaysRequired: defaultDaysRequired})
	}
	return levels
}

// Templates returns the built-in habit catalog. Callers receive fresh level
// slices on Start, so the catalog itself is never aliased into user state.
func Templates() []Template {
	return []Template{
		{
			ID:          "meditate",
			Name:        "Meditate",
			Emoji:       "🧘",
			Description: "Build a daily meditation practice, starting from just 60 seconds",
			Levels: ladder([5]string{
				"Sit quietly for 60 seconds",
				"Focus on your breath for 2 minutes",
				"Guided meditation for 5 minutes",
				"Meditate for 10 minutes",
				"Meditate for 20 minutes",
			}),
		},
		{
			ID:          "read",
			Name:        "Read",
			Emoji:       "📖",
			Description: "Develop a reading habit, one page at a time",
			Levels: ladder([5]string{
				"Read just 1 page of any book",
				"Read for 5 minutes",
				"Read for 10 minutes",
				"Read for 15 minutes",
				"Read for 20 minutes",
			}),
		},
		{
			ID:          "exercise",
			Name:        "Exercise",
			Emoji:       "💪",
			Description: "Get moving every day, starting ridiculously small",
			Levels: ladder([5]string{
				"Do 5 pushups or stretch for 2 minutes",
				"Take a 10-minute walk",
				"15-minute workout of any kind",
				"20-minute focused workout",
				"30-minute workout session",
			}),
		},
		{
			ID:          "journal",
			Name:        "Journal",
			Emoji:       "✍️",
			Description: "Start writing about your life, one sentence at a time",
			Levels: ladder([5]string{
				"Write 1 sentence about your day",
				"Write 3 sentences about your day",
				"Write a full paragraph",
				"Free-write for 5 minutes",
				"Journal for 10 minutes",
			}),
		},
		{
			ID:          "hydrate",
			Name:        "Hydrate",
			Emoji:       "💧",
			Description: "Drink more water, building up glass by glass",
			Levels: ladder([5]string{
				"Drink 1 glass of water in the morning",
				"Drink 3 glasses throughout the day",
				"Drink 5 glasses throughout the day",
				"Drink 7 glasses throughout the day",
				"Drink 8 glasses throughout the day",
			}),
		},
		{
			ID:          "gratitude",
			Name:        "Gratitude",
			Emoji:       "🙏",
			Description: "Cultivate thankfulness as a daily practice",
			Levels: ladder([5]string{
				"Think of 1 thing you're grateful for",
				"Write down 1 thing you're grateful for",
				"Write down 3 things you're grateful for",
				"Write a short thank-you note to someone",
				"Gratitude journal for 5 minutes",
			}),
		},
		{
			ID:          "sleep",
			Name:        "Better Sleep",
			Emoji:       "🌙",
			Description: "Improve your sleep one small change at a time",
			Levels: ladder([5]string{
				"Set a consistent bedtime alarm",
				"No screens 15 minutes before bed",
				"No screens 30 minutes before bed",
				"Create a 10-minute wind-down routine",
				"Full sleep hygiene routine nightly",
			}),
		},
		{
			ID:          "declutter",
			Name:        "Declutter",
			Emoji:       "✨",
			Description: "Create order in your space, one surface at a time",
			Levels: ladder([5]string{
				"Tidy one small surface",
				"Organize one drawer or shelf",
				"Clean one area for 10 minutes",
				"Declutter 5 items you don't need",
				"15-minute daily tidy routine",
			}),
		},
	}
}

// GetTemplate looks up a built-in template by id.
func GetTemplate(id string) (*Template, error) {
	for _, t := range Templates() {
		if t.ID == id {
			return &t, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrTemplateNotFound, id)
}

// BuildCustomLevels scales a user-authored habit into the standard 5-level
// ladder. The user defines the target; the ladder ramps effort toward it.
func BuildCustomLevels(habitName string) []HabitLevel {
	return ladder([5]string{
		habitName + " — smallest possible version",
		habitName + " — slightly more effort",
		habitName + " — moderate effort",
		habitName + " — solid effort",
		habitName + " — full target version",
	})
}
