package domain

import "time"

// UserAccount is one row of the portal's credential table.
//
// Passwords are stored in plaintext and the emergency password is derivable
// from MotherName and DOB. That is the point: this is a training target, and
// the weaknesses are the curriculum. Do not "fix" them.
type UserAccount struct {
	Username   string `json:"username"`
	Password   string `json:"password"`
	Role       Role   `json:"role"`
	FullName   string `json:"full_name"`
	Email      string `json:"email"`
	Department string `json:"department"`
	JoinDate   string `json:"join_date"`
	EmployeeID string `json:"employee_id"`

	// Recovery-secret derivation inputs; only set where an emergency
	// password exists (admin and boss).
	MotherName        string `json:"mother_name,omitempty"`
	DOB               string `json:"dob,omitempty"`
	EmergencyPassword string `json:"emergency_password,omitempty"`

	IsBlocked      bool       `json:"is_blocked"`
	FailedAttempts int        `json:"failed_attempts"`
	LastLogin      *time.Time `json:"last_login,omitempty"`
}

// SeedUsers returns the built-in ShiPhy account table used when no persisted
// snapshot exists. The credentials are fixed; trainees discover them through
// the planted hints.
func SeedUsers() []UserAccount {
	return []UserAccount{
		{
			Username:   "intern_001",
			Password:   "Password@123",
			Role:       RoleIntern,
			FullName:   "Raj Kumar",
			Email:      "raj.kumar@shiphy.com",
			Department: "Development",
			JoinDate:   "2024-01-15",
			EmployeeID: "INT-2024-001",
		},
		{
			Username:   "emp_001",
			Password:   "EmpPass@456",
			Role:       RoleEmployee,
			FullName:   "Priya Sharma",
			Email:      "priya.sharma@shiphy.com",
			Department: "Engineering",
			JoinDate:   "2022-06-01",
			EmployeeID: "EMP-2022-045",
		},
		{
			Username:   "hr_team",
			Password:   "HR@9999",
			Role:       RoleHR,
			FullName:   "HR Department",
			Email:      "hr@shiphy.com",
			Department: "Human Resources",
			JoinDate:   "2020-01-01",
			EmployeeID: "HR-2020-001",
		},
		{
			Username:   "admin_abhishek",
			Password:   "Admin@123",
			Role:       RoleAdmin,
			FullName:   "Abhishek Shemadi",
			Email:      "abhishek.shemadi@shiphy.com",
			Department: "Administration",
			JoinDate:   "2019-03-22",
			EmployeeID: "ADM-2019-001",
			MotherName: "SHEETAL",
			DOB:        "22031985",
			// First 4 letters of mother's name + DOB
			EmergencyPassword: "SHEE22031985",
		},
		{
			Username:   "boss",
			Password:   "1@mth3bossPr@k@5h",
			Role:       RoleBoss,
			FullName:   "Prakash Deshmukh",
			Email:      "ceo@shiphy.com",
			Department: "Executive",
			JoinDate:   "2018-01-01",
			EmployeeID: "CEO-2018-001",
			// Only blue team knows this one.
			EmergencyPassword: "58913022EEHS",
		},
		{
			Username:   "blue_team_lead",
			Password:   "BlueTeam@2026",
			Role:       RoleBlueTeam,
			FullName:   "Blue Team Lead",
			Email:      "security@shiphy.com",
			Department: "Security Operations",
			JoinDate:   "2021-01-01",
			EmployeeID: "SEC-2021-001",
		},
	}
}
