// Package models содержит доменную модель пользователя каталога визиток.
// Запись пользователя, как и визитка, принадлежит удалённому API;
// клиент только отображает её и отправляет запросы на изменение.
package models

import (
	"strings"
	"time"
)

// Name структурированное имя пользователя.
type Name struct {
	First  string `json:"first"`
	Middle string `json:"middle,omitempty"`
	Last   string `json:"last"`
}

// User представляет зарегистрированного пользователя каталога.
type User struct {
	ID         string    `json:"_id" validate:"required"`
	Name       Name      `json:"name"`
	Phone      string    `json:"phone"`
	Email      string    `json:"email"`
	Image      Image     `json:"image"`
	Address    Address   `json:"address"`
	IsAdmin    bool      `json:"isAdmin"`    // Роль администратора
	IsBusiness bool      `json:"isBusiness"` // Роль бизнес-пользователя, даёт право заводить визитки
	CreatedAt  time.Time `json:"createdAt"`
}

// FullName возвращает имя и фамилию одной строкой, как их показывает каталог.
func (u *User) FullName() string {
	return strings.TrimSpace(u.Name.First + " " + u.Name.Last)
}

// DummyName используется для приёма имени из формы регистрации или правки.
type DummyName struct {
	First  string `json:"first" validate:"required,min=2,max=255"`
	Middle string `json:"middle,omitempty" validate:"omitempty,min=2,max=255"`
	Last   string `json:"last" validate:"required,min=2,max=255"`
}

// DummyUser используется для приёма данных формы регистрации.
// Пароль проверяется кастомным правилом password: минимум 9 символов,
// буква, цифра и один из символов !@#$%^&*-.
type DummyUser struct {
	Name       DummyName    `json:"name"`
	Phone      string       `json:"phone" validate:"required,min=9,max=10"`
	Email      string       `json:"email" validate:"required,email"`
	Password   string       `json:"password" validate:"required,password"`
	Image      DummyImage   `json:"image"`
	Address    DummyAddress `json:"address"`
	IsBusiness bool         `json:"isBusiness"`
}

// DummyUserUpdate используется для приёма данных формы правки пользователя
// в админ-панели: роль и почта через неё не меняются.
type DummyUserUpdate struct {
	Name    DummyName    `json:"name"`
	Phone   string       `json:"phone" validate:"required,min=9,max=10"`
	Image   DummyImage   `json:"image"`
	Address DummyAddress `json:"address"`
}

// DummyLogin используется для приёма учётных данных формы входа.
type DummyLogin struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}
