// Package dashboard derives the display aggregates of the dashboards from already fetched rows.
package dashboard

import (
	"math"
	"sort"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/trezcool/mentori/core"
	"github.com/trezcool/mentori/core/assignment"
	"github.com/trezcool/mentori/core/todo"
)

type ItemType string

const (
	ItemAssignment ItemType = "assignment"
	ItemTodo       ItemType = "todo"
)

var (
	itemTypeTag  = "item_type"
	itemTypeText = "{0} must be one of assignment, todo"
)

func ParseItemType(s string) (ItemType, bool) {
	switch ItemType(s) {
	case ItemAssignment, ItemTodo:
		return ItemType(s), true
	}
	return "", false
}

func InitValidators(validate *validator.Validate, translator ut.Translator) {
	_ = validate.RegisterValidation(itemTypeTag, func(fl validator.FieldLevel) bool {
		_, ok := ParseItemType(fl.Field().String())
		return ok
	})
	core.RegisterCustomTranslation(validate, translator, itemTypeTag, itemTypeText)
}

// Item is an assignment or a todo normalized for the day's checklist.
type Item struct {
	ID        string   `json:"id"`
	Type      ItemType `json:"type"`
	Subject   string   `json:"subject"`
	Content   string   `json:"content"`
	Completed bool     `json:"completed"`
}

// fromAssignment lists an assignment by its title; its content is the full instructions.
func fromAssignment(a assignment.Assignment) Item {
	return Item{ID: a.ID, Type: ItemAssignment, Subject: a.Subject, Content: a.Title, Completed: a.Completed}
}

func fromTodo(t todo.Todo) Item {
	return Item{ID: t.ID, Type: ItemTodo, Subject: t.Subject.String, Content: t.Content, Completed: t.Completed}
}

// ActiveItems lists the assignments active on date, by end_date ascending,
// followed by the todos targeting date, by creation time ascending. No item appears twice.
func ActiveItems(date core.Date, assignments []assignment.Assignment, todos []todo.Todo) []Item {
	active := make([]assignment.Assignment, 0, len(assignments))
	for _, a := range assignments {
		if a.ActiveOn(date) {
			active = append(active, a)
		}
	}
	sort.SliceStable(active, func(i, j int) bool {
		if active[i].EndDate != active[j].EndDate {
			return active[i].EndDate < active[j].EndDate
		}
		return active[i].CreatedAt.Before(active[j].CreatedAt)
	})

	daily := make([]todo.Todo, 0, len(todos))
	for _, t := range todos {
		if t.TargetDate == date {
			daily = append(daily, t)
		}
	}
	sort.SliceStable(daily, func(i, j int) bool {
		return daily[i].CreatedAt.Before(daily[j].CreatedAt)
	})

	seen := make(map[string]bool, len(active)+len(daily))
	items := make([]Item, 0, len(active)+len(daily))
	add := func(it Item) {
		key := string(it.Type) + ":" + it.ID
		if seen[key] {
			return
		}
		seen[key] = true
		items = append(items, it)
	}
	for _, a := range active {
		add(fromAssignment(a))
	}
	for _, t := range daily {
		add(fromTodo(t))
	}
	return items
}

// Progress is round(100 * completed / total), 0 for an empty list.
func Progress(items []Item) int {
	completed, total := CountCompleted(items)
	if total == 0 {
		return 0
	}
	return int(math.Round(100 * float64(completed) / float64(total)))
}

func CountCompleted(items []Item) (completed, total int) {
	for _, it := range items {
		if it.Completed {
			completed++
		}
	}
	return completed, len(items)
}
