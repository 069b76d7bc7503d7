package telegram

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/medlane/prediag-backend/internal/entity"
)

const (
	callbackGenderPrefix = "gender:"
	callbackOptionPrefix = "opt:"
)

func genderKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("Male", callbackGenderPrefix+"male"),
			tgbotapi.NewInlineKeyboardButtonData("Female", callbackGenderPrefix+"female"),
			tgbotapi.NewInlineKeyboardButtonData("Other", callbackGenderPrefix+"other"),
		),
	)
}

func optionsKeyboard(q *entity.StructuredQuestion) tgbotapi.InlineKeyboardMarkup {
	options := q.Options()
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(options))
	for _, key := range entity.OptionKeys {
		value, ok := options[key]
		if !ok {
			continue
		}
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(key+") "+value, callbackOptionPrefix+key),
		))
	}
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}
