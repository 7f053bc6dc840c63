package role

// Role — закрытый перечень ролей пользователей.
// CITY публикует тендеры, COMPANY подаёт заявки (bids).
type Role string

const (
	City    Role = "CITY"
	Company Role = "COMPANY"
)

// Valid проверяет, что роль входит в закрытый перечень
func Valid(r Role) bool {
	switch r {
	case City, Company:
		return true
	default:
		return false
	}
}

// Action — операция записи, которую нужно авторизовать
type Action string

const (
	ActionTenderCreate Action = "tender.create"
	ActionTenderUpdate Action = "tender.update"
	ActionTenderDelete Action = "tender.delete"
	ActionBidCreate    Action = "bid.create"
	ActionSelectWinner Action = "bid.select_winner"
)

// Единая таблица прав: (действие, роль) -> разрешено/запрещено.
// Все обработчики ходят только сюда, без разрозненных проверок роли.
var permissions = map[Action]map[Role]bool{
	ActionTenderCreate: {City: true},
	ActionTenderUpdate: {City: true},
	ActionTenderDelete: {City: true},
	// Подать заявку может любой аутентифицированный пользователь
	ActionBidCreate:    {City: true, Company: true},
	ActionSelectWinner: {City: true},
}

// Allowed решает, разрешено ли действие для роли.
// Суперпользователь проходит любую проверку.
func Allowed(r Role, superuser bool, a Action) bool {
	if superuser {
		return true
	}
	return permissions[a][r]
}
