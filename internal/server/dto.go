package server

import (
	"github.com/amosley/joinboard/internal/models"
	"github.com/amosley/joinboard/internal/repositories"
)

// userDTO is the public view of a user. The password hash never leaves the
// server.
type userDTO struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Initials string `json:"initials"`
	Email    string `json:"email"`
}

func toUserDTO(u *models.User) userDTO {
	return userDTO{
		ID:       u.ID(),
		Name:     u.Name(),
		Initials: u.Initials(),
		Email:    u.Email(),
	}
}

type contactDTO struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Email    string `json:"email,omitempty"`
	Phone    string `json:"phone,omitempty"`
	Initials string `json:"initials"`
	Color    string `json:"color,omitempty"`
}

func toContactDTO(c *models.Contact) contactDTO {
	return contactDTO{
		ID:       c.ID(),
		Name:     c.Name(),
		Email:    c.Email(),
		Phone:    c.Phone(),
		Initials: c.Initials(),
		Color:    c.Color(),
	}
}

type subtaskDTO struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	IsCompleted bool   `json:"is_completed"`
}

type taskDTO struct {
	ID          string       `json:"id"`
	Title       string       `json:"title"`
	Description string       `json:"description,omitempty"`
	DueDate     string       `json:"due_date,omitempty"`
	Priority    string       `json:"priority"`
	Category    string       `json:"category,omitempty"`
	Status      string       `json:"status"`
	Subtasks    []subtaskDTO `json:"subtasks"`
	Assigned    []contactDTO `json:"assigned_contacts"`
}

// toTaskDTO assembles the task view, loading subtasks and assigned contacts
// from the repository.
func toTaskDTO(repo *repositories.TaskRepository, t *models.Task) (taskDTO, error) {
	dto := taskDTO{
		ID:          t.ID(),
		Title:       t.Title(),
		Description: t.Description(),
		DueDate:     t.DueDate(),
		Priority:    string(t.Priority()),
		Category:    t.Category(),
		Status:      string(t.Status()),
		Subtasks:    []subtaskDTO{},
		Assigned:    []contactDTO{},
	}

	subtasks, err := repo.Subtasks(t.ID())
	if err != nil {
		return dto, err
	}
	for _, s := range subtasks {
		dto.Subtasks = append(dto.Subtasks, subtaskDTO{ID: s.ID, Title: s.Title, IsCompleted: s.IsCompleted})
	}

	contacts, err := repo.AssignedContacts(t.ID())
	if err != nil {
		return dto, err
	}
	for _, c := range contacts {
		dto.Assigned = append(dto.Assigned, toContactDTO(c))
	}

	return dto, nil
}
