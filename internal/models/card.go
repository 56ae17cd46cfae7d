// Package models содержит доменные структуры визитки и пользователя,
// зеркалирующие ресурсы удалённого bcard API, а также вспомогательные
// типы для приёма данных формы перед отправкой на сервер.
package models

import "time"

// DefaultImageURL картинка-заглушка для визиток без собственного изображения.
const DefaultImageURL = "https://t4.ftcdn.net/jpg/04/73/25/49/360_F_473254957_bxG9yf4ly7OBO5I0O5KABlN930GwaMQz.jpg"

// Image вложенная ссылка на изображение визитки или аватар пользователя.
type Image struct {
	URL string `json:"url,omitempty"`
	Alt string `json:"alt,omitempty"`
}

// Address вложенный почтовый адрес.
type Address struct {
	State       string `json:"state,omitempty"`
	Country     string `json:"country"`
	City        string `json:"city"`
	Street      string `json:"street"`
	HouseNumber int    `json:"houseNumber"`
	Zip         int    `json:"zip"`
}

// Card представляет визитку, какой её возвращает удалённый API.
// Жизненным циклом записи владеет сервер: клиент только читает её
// и отправляет запросы create/update/like/delete.
type Card struct {
	ID          string    `json:"_id" validate:"required"`
	Title       string    `json:"title"`
	Subtitle    string    `json:"subtitle"`
	Description string    `json:"description"`
	Phone       string    `json:"phone"`
	Email       string    `json:"email"`
	Web         string    `json:"web"`
	Image       Image     `json:"image"`
	Address     Address   `json:"address"`
	BizNumber   int       `json:"bizNumber"`
	Likes       []string  `json:"likes"`
	UserID      string    `json:"user_id"`
	CreatedAt   time.Time `json:"createdAt"`
}

// LikedBy сообщает, лайкнул ли визитку пользователь с данным идентификатором.
func (c *Card) LikedBy(userID string) bool {
	for _, id := range c.Likes {
		if id == userID {
			return true
		}
	}
	return false
}

// LikeCount возвращает количество лайков визитки.
func (c *Card) LikeCount() int {
	return len(c.Likes)
}

// ImageURL возвращает адрес картинки визитки либо заглушку, если адрес пуст.
func (c *Card) ImageURL() string {
	if c.Image.URL == "" {
		return DefaultImageURL
	}
	return c.Image.URL
}

// DummyImage используется для приёма полей изображения из формы.
type DummyImage struct {
	URL string `json:"url" validate:"omitempty,url"`                // Адрес изображения (опционально)
	Alt string `json:"alt" validate:"omitempty,min=2,max=255"`     // Подпись к изображению (опционально)
}

// DummyAddress используется для приёма адреса из формы.
type DummyAddress struct {
	State       string `json:"state" validate:"omitempty,min=2,max=255"` // Штат/регион (опционально)
	Country     string `json:"country" validate:"required,min=2,max=255"`
	City        string `json:"city" validate:"required,min=2,max=255"`
	Street      string `json:"street" validate:"required,min=2,max=255"`
	HouseNumber int    `json:"houseNumber" validate:"required"`
	Zip         int    `json:"zip" validate:"required"`
}

// DummyCard используется для приёма данных формы создания или правки визитки,
// прежде чем отправить их на сервер. Валидация выполняется на клиенте
// до какого-либо сетевого вызова.
type DummyCard struct {
	Title       string       `json:"title" validate:"required,min=2,max=255"`
	Subtitle    string       `json:"subtitle" validate:"required,min=2,max=255"`
	Description string       `json:"description" validate:"required,min=2,max=1024"`
	Phone       string       `json:"phone" validate:"required,min=9,max=14"`
	Email       string       `json:"email" validate:"required,email"`
	Web         string       `json:"web" validate:"required,url"`
	Image       DummyImage   `json:"image"`
	Address     DummyAddress `json:"address"`
}

// DummyCardFromCard заполняет форму правки полями существующей визитки.
// При правке на сервер всегда уходит полная форма, а не разница полей.
func DummyCardFromCard(card *Card) DummyCard {
	return DummyCard{
		Title:       card.Title,
		Subtitle:    card.Subtitle,
		Description: card.Description,
		Phone:       card.Phone,
		Email:       card.Email,
		Web:         card.Web,
		Image: DummyImage{
			URL: card.Image.URL,
			Alt: card.Image.Alt,
		},
		Address: DummyAddress{
			State:       card.Address.State,
			Country:     card.Address.Country,
			City:        card.Address.City,
			Street:      card.Address.Street,
			HouseNumber: card.Address.HouseNumber,
			Zip:         card.Address.Zip,
		},
	}
}
