package user

// SeedAccount is a demo identity created by `admin seed`.
type SeedAccount struct {
	Email    string
	Nickname string
	Role     string
	Password string
}

// SeedAccounts are the known demo mentor and mentees.
var SeedAccounts = []SeedAccount{
	{Email: "mentor@mentori.dev", Nickname: "김멘토", Role: RoleMentor, Password: "Study-Hard-2024!"},
	{Email: "mentee1@mentori.dev", Nickname: "이멘티", Role: RoleMentee, Password: "Study-Hard-2024!"},
	{Email: "mentee2@mentori.dev", Nickname: "박멘티", Role: RoleMentee, Password: "Study-Hard-2024!"},
}
