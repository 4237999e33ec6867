package dto

type RegisterInput struct {
	Username string
	Email    string
	Password string
}

type LoginInput struct {
	Username string
	Password string
}

type SessionOutput struct {
	Username string
	Role     string
	Token    string
}

type ProfileOutput struct {
	UserID   int
	Username string
}
