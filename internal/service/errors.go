package service

import "errors"

// Сентинельные ошибки сервисного слоя. Хендлер сопоставляет их с HTTP-статусами.
var (
	// ErrForbidden - действие доступно только администратору
	ErrForbidden = errors.New("administrator role required")
	// ErrNotFound - событие не найдено
	ErrNotFound = errors.New("incident not found")
	// ErrUserNotFound - пользователь не найден
	ErrUserNotFound = errors.New("user not found")
	// ErrEmailTaken - e-mail уже зарегистрирован
	ErrEmailTaken = errors.New("email already registered")
	// ErrInvalidCredentials - неверная пара e-mail/пароль
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrMissingCredentials - пустой e-mail или пароль, проверяется до любого обращения к хранилищу
	ErrMissingCredentials = errors.New("email and password are required")
	// ErrPasswordTooShort - пароль короче минимальной длины
	ErrPasswordTooShort = errors.New("password must be at least 6 characters")
)
