package repository

import "github.com/jhoicas/Farmacia-api/internal/domain/entity"

// MedicineRepository define el puerto de persistencia para Medicine (DIP).
type MedicineRepository interface {
	Create(medicine *entity.Medicine) error
	GetByID(id string) (*entity.Medicine, error)
	GetByName(name string) (*entity.Medicine, error)
	Update(medicine *entity.Medicine) error
	List(search string, limit, offset int) ([]*entity.Medicine, error)
	Delete(id string) error
}
