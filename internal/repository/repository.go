package repository

import "errors"

// ErrNotFound возвращается, когда изменяемая строка не существует
var ErrNotFound = errors.New("запись не найдена")
