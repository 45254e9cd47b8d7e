package model

// Record - запись хранилища в том виде, в котором её отдаёт сервер.
type Record struct {
	ID         string  `json:"id"`
	UserID     string  `json:"user_id"`
	RecordType string  `json:"record_type"`
	Service    *string `json:"service,omitempty"`
	Username   *string `json:"username,omitempty"`
	Email      *string `json:"email,omitempty"`
	Password   *string `json:"password,omitempty"`
	Key        *string `json:"key,omitempty"`
	Secret     *string `json:"secret,omitempty"`
	CreatedAt  string  `json:"created_at"`
	UpdatedAt  string  `json:"updated_at"`
}

// RecordInput - тело создания или частичного обновления записи.
type RecordInput struct {
	RecordType *string `json:"record_type,omitempty"`
	Service    *string `json:"service,omitempty"`
	Username   *string `json:"username,omitempty"`
	Email      *string `json:"email,omitempty"`
	Password   *string `json:"password,omitempty"`
	Key        *string `json:"key,omitempty"`
	Secret     *string `json:"secret,omitempty"`
}

// Empty сообщает, что ни одно поле не задано.
func (in RecordInput) Empty() bool {
	return in.RecordType == nil && in.Service == nil && in.Username == nil &&
		in.Email == nil && in.Password == nil && in.Key == nil && in.Secret == nil
}

// SearchParams - параметры GET /api/search. Нулевые значения не передаются.
type SearchParams struct {
	Query   string
	Service string
	Key     string
	Type    string
	Page    int
	Limit   int
}
