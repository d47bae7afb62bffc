package service

import "errors"

var (
	ErrUserNotFound  = errors.New("пользователь не найден")
	ErrInvalidAmount = errors.New("неверная сумма")
)
