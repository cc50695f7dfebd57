// Package messages renders every user facing text of the bot.
package messages

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/quiterx/selfrealization-bot/internal/models"
	"github.com/quiterx/selfrealization-bot/internal/notes"
)

// --- main menu --------------------------------------------------------------
const (
	BtnCalories = "🍽 Калории"
	BtnWater    = "💧 Вода"
	BtnActivity = "🏃‍♂️ Активность"
	BtnWeight   = "⚖️ Вес"
	BtnNotes    = "📅 Планы и мысли"
	BtnTip      = "🤖 Совет дня"
	BtnCoach    = "❓ Вопрос тренеру"
	BtnBack     = "⬅️ В меню"
)

// --- calories / water -------------------------------------------------------
const (
	BtnSubtractCalories = "➖ Вычесть калории"
	BtnResetCalories    = "🔄 Сбросить остаток"
	BtnCalorieLimit     = "✏️ Изменить лимит"
	BtnCalorieHistory   = "📊 История"

	BtnAddWater     = "➖ Выпил воды"
	BtnResetWater   = "🔄 Сбросить воду"
	BtnWaterLimit   = "✏️ Изменить лимит воды"
	BtnWaterHistory = "📊 История воды"
)

// --- activity / weight ------------------------------------------------------
const (
	BtnAddSteps        = "➕ Добавить шаги"
	BtnWorkout         = "🏋️‍♂️ Отметить тренировку"
	BtnResetActivity   = "🔄 Сбросить активность"
	BtnActivityHistory = "📊 История активности"

	BtnAddWeight     = "➕ Ввести вес"
	BtnResetWeight   = "🔄 Сбросить вес"
	BtnWeightHistory = "📊 История веса"
)

// --- notes / faq ------------------------------------------------------------
const (
	BtnAddPlan      = "📝 Записать план"
	BtnAddThought   = "💭 Записать мысль"
	BtnTodayNotes   = "📋 Сегодняшние записи"
	BtnNotesHistory = "📚 История записей"

	BtnFAQ = "❓ Частые вопросы"
	BtnAsk = "✍️ Задать свой вопрос"

	BtnConfirmReset = "✅ Да, сбросить"
	BtnCancelReset  = "❌ Нет"
)

const (
	Welcome = "Привет! 👋\n\nЯ твой бот-помощник для самореализации и похудения! " +
		"Вместе мы сможем достичь твоих целей: следить за калориями, водой, активностью " +
		"и поддерживать мотивацию каждый день! 💪\n\n" +
		"Я буду напоминать тебе пить воду и отправлять мотивирующие сообщения!\n\nВыбери раздел:"
	ChooseSection    = "Выбери раздел:"
	GenericError     = "Произошла ошибка. Пожалуйста, попробуйте позже."
	EnterNumber      = "Пожалуйста, введите число:"
	EnterPositive    = "Число должно быть больше нуля. Попробуй ещё раз:"
	EnterText        = "Текст не может быть пустым. Попробуй ещё раз:"
	ActionCancelled  = "Действие отменено"
	RemindersStopped = "🔕 Напоминания выключены. Чтобы включить их снова, отправь /start"

	NotesIntro = "Здесь ты можешь записывать свои планы и мысли. " +
		"Это поможет отслеживать прогресс и анализировать свой путь!"
	CoachIntro = "Ты можешь выбрать частый вопрос или задать свой!"
	FAQChoose  = "Выбери вопрос:"
	FAQEmpty   = "Список вопросов пока пуст."

	WaterReminder = "💧 Не забывай пить воду! За последние 2 часа ты выпил(а) мало воды."
)

// Prompts for pending inputs.
var prompts = map[models.Pending]string{
	models.PendingCalories:     "Сколько калорий вычесть? Введите число:",
	models.PendingCalorieLimit: "Введите новый лимит калорий на день:",
	models.PendingWater:        "Сколько мл воды выпито? Введите число:",
	models.PendingWaterLimit:   "Введите новый лимит воды на день (в мл):",
	models.PendingSteps:        "Сколько шагов добавить? Введите число:",
	models.PendingWeight:       "Введи свой вес (кг):",
	models.PendingPlan:         "Напиши свой план:",
	models.PendingThought:      "Запиши свою мысль:",
	models.PendingQuestion:     "Напиши свой вопрос тренеру:",
}

func Prompt(p models.Pending) string {
	return prompts[p]
}

func num(n int) string {
	return humanize.FormatInteger("# ###.", n)
}

func kg(v float64) string {
	return humanize.Ftoa(v)
}

func mark(ok bool) string {
	if ok {
		return "✅"
	}
	return "❌"
}

// --- snapshots --------------------------------------------------------------

func CaloriesSummary(s models.BudgetSnapshot) string {
	return fmt.Sprintf("🍽 Трекер калорий\n\nЛимит: %s ккал\nОсталось: %s ккал\n\nЧто сделать?", num(s.Limit), num(s.Left))
}

func WaterSummary(s models.BudgetSnapshot) string {
	return fmt.Sprintf("💧 Трекер воды\n\nЛимит: %s мл\nОсталось: %s мл\n\nЧто сделать?", num(s.Limit), num(s.Left))
}

func ActivitySummary(s models.ActivitySnapshot) string {
	return fmt.Sprintf("🏃‍♂️ Трекер активности\n\nШаги: %s\nТренировка: %s\n\nЧто сделать?", num(s.Steps), mark(s.Workout))
}

func WeightSummary(v *float64) string {
	current := "не введён"
	if v != nil {
		current = kg(*v) + " кг"
	}
	return fmt.Sprintf("⚖️ Трекер веса\n\nТекущий вес: %s\n\nЧто сделать?", current)
}

// --- results ----------------------------------------------------------------

func CaloriesAdded(amount, left int) string {
	return fmt.Sprintf("✅ Вычтено %s ккал\n\nОсталось: %s ккал", num(amount), num(left))
}

func CalorieLimitSet(limit int) string {
	return fmt.Sprintf("✅ Лимит калорий установлен: %s ккал", num(limit))
}

func WaterAdded(amount, left int) string {
	return fmt.Sprintf("✅ Добавлено %s мл воды\n\nОсталось: %s мл", num(amount), num(left))
}

func WaterLimitSet(limit int) string {
	return fmt.Sprintf("✅ Лимит воды установлен: %s мл", num(limit))
}

func StepsAdded(steps, total int) string {
	return fmt.Sprintf("✅ Добавлено %s шагов\n\nВсего: %s шагов", num(steps), num(total))
}

const WorkoutMarked = "Тренировка отмечена! 💪"

func WeightSaved(v float64) string {
	return fmt.Sprintf("✅ Вес %s кг сохранен", kg(v))
}

func NoteSaved(kind models.NoteKind) string {
	if kind == models.NotePlan {
		return "✅ План сохранен"
	}
	return "✅ Мысль сохранена"
}

// --- reset confirmation -----------------------------------------------------

func ResetQuestion(m models.Metric) string {
	switch m {
	case models.MetricCalories:
		return "Вы точно уверены, что хотите обнулить остаток калорий на сегодня?"
	case models.MetricWater:
		return "Вы точно уверены, что хотите обнулить остаток воды на сегодня?"
	case models.MetricActivity:
		return "Вы точно уверены, что хотите сбросить активность за сегодня?"
	default:
		return "Ты точно хочешь удалить вес за сегодня?"
	}
}

func ResetDone(m models.Metric) string {
	switch m {
	case models.MetricCalories:
		return "✅ Остаток калорий сброшен"
	case models.MetricWater:
		return "✅ Остаток воды сброшен"
	case models.MetricActivity:
		return "✅ Активность сброшена"
	default:
		return "✅ Вес сброшен"
	}
}

// --- histories --------------------------------------------------------------

func CaloriesHistory(days []models.BudgetDay) string {
	var b strings.Builder
	fmt.Fprintf(&b, "История за %d дней:\n", len(days))
	for _, d := range days {
		fmt.Fprintf(&b, "%s: %s/%s ккал\n", d.Day, num(d.Consumed), num(d.Limit))
	}
	return b.String()
}

func WaterHistory(days []models.BudgetDay) string {
	var b strings.Builder
	fmt.Fprintf(&b, "История воды за %d дней:\n", len(days))
	for _, d := range days {
		fmt.Fprintf(&b, "%s: %s/%s мл\n", d.Day, num(d.Consumed), num(d.Limit))
	}
	return b.String()
}

func ActivityHistory(days []models.ActivityDay) string {
	var b strings.Builder
	fmt.Fprintf(&b, "История активности за %d дней:\n", len(days))
	for _, d := range days {
		fmt.Fprintf(&b, "%s: %s шагов, тренировка: %s\n", d.Day, num(d.Steps), mark(d.Workout))
	}
	return b.String()
}

func WeightHistory(days []models.WeightDay) string {
	var b strings.Builder
	fmt.Fprintf(&b, "История веса за %d дней:\n", len(days))
	for _, d := range days {
		if d.Value == nil {
			fmt.Fprintf(&b, "%s: —\n", d.Day)
			continue
		}
		fmt.Fprintf(&b, "%s: %s кг\n", d.Day, kg(*d.Value))
	}
	return b.String()
}

// --- notes ------------------------------------------------------------------

func noteLine(n models.Note) string {
	if n.Kind == models.NotePlan {
		return "📝 " + n.Text
	}
	return "💭 " + n.Text
}

func TodayNotes(list []models.Note) string {
	if len(list) == 0 {
		return "На сегодня пока нет записей."
	}
	var b strings.Builder
	b.WriteString("Записи за сегодня:\n\n")
	for _, n := range list {
		b.WriteString(noteLine(n))
		b.WriteByte('\n')
	}
	return b.String()
}

func NotesHistory(days []notes.DayNotes) string {
	if len(days) == 0 {
		return "История пуста."
	}
	var b strings.Builder
	b.WriteString("История записей за неделю:\n")
	for _, d := range days {
		fmt.Fprintf(&b, "\n📅 %s:\n", d.Day)
		for _, n := range d.Notes {
			b.WriteString(noteLine(n))
			b.WriteByte('\n')
		}
	}
	return b.String()
}

// --- reference content ------------------------------------------------------

func Tip(text string) string {
	return "Совет дня: " + text
}

func FAQAnswer(c *models.ReferenceContent) string {
	return fmt.Sprintf("❓ %s\n\n%s", c.Question, c.Text)
}

func CoachAnswer(answer string) string {
	return "Спасибо за вопрос! Вот мой ответ:\n\n" + answer
}

func Motivation(text string) string {
	return "💪 " + text
}
