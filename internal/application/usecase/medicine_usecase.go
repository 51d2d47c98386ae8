package usecase

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/jhoicas/Farmacia-api/internal/application/dto"
	"github.com/jhoicas/Farmacia-api/internal/domain"
	"github.com/jhoicas/Farmacia-api/internal/domain/entity"
	"github.com/jhoicas/Farmacia-api/internal/domain/repository"
)

// MedicineUseCase casos de uso CRUD del catálogo de medicamentos. Las
// existencias no se tocan aquí: se manejan por lote vía el motor de stock.
type MedicineUseCase struct {
	repo      repository.MedicineRepository
	batchRepo repository.BatchRepository
}

// NewMedicineUseCase construye el caso de uso.
func NewMedicineUseCase(repo repository.MedicineRepository, batchRepo repository.BatchRepository) *MedicineUseCase {
	return &MedicineUseCase{repo: repo, batchRepo: batchRepo}
}

// Create crea un medicamento. El precio no puede ser negativo ni el umbral de
// stock mínimo menor que cero.
func (uc *MedicineUseCase) Create(in dto.CreateMedicineRequest) (*dto.MedicineResponse, error) {
	if in.Name == "" || in.Category == "" {
		return nil, domain.ErrInvalidInput
	}
	if in.Price.LessThan(decimal.Zero) || in.MinStockLevel < 0 {
		return nil, domain.ErrInvalidInput
	}
	now := time.Now()
	medicine := &entity.Medicine{
		ID:            uuid.New().String(),
		Name:          in.Name,
		GenericName:   in.GenericName,
		Category:      in.Category,
		Unit:          in.Unit,
		Price:         in.Price,
		MinStockLevel: in.MinStockLevel,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := uc.repo.Create(medicine); err != nil {
		return nil, err
	}
	return toMedicineResponse(medicine), nil
}

// GetByID obtiene un medicamento por ID.
func (uc *MedicineUseCase) GetByID(id string) (*dto.MedicineResponse, error) {
	medicine, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if medicine == nil {
		return nil, domain.ErrMedicineNotFound
	}
	return toMedicineResponse(medicine), nil
}

// Update actualiza un medicamento (campos opcionales).
func (uc *MedicineUseCase) Update(id string, in dto.UpdateMedicineRequest) (*dto.MedicineResponse, error) {
	medicine, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if medicine == nil {
		return nil, domain.ErrMedicineNotFound
	}
	if in.Name != nil {
		medicine.Name = *in.Name
	}
	if in.GenericName != nil {
		medicine.GenericName = *in.GenericName
	}
	if in.Category != nil {
		medicine.Category = *in.Category
	}
	if in.Unit != nil {
		medicine.Unit = *in.Unit
	}
	if in.Price != nil {
		if in.Price.LessThan(decimal.Zero) {
			return nil, domain.ErrInvalidInput
		}
		medicine.Price = *in.Price
	}
	if in.MinStockLevel != nil {
		if *in.MinStockLevel < 0 {
			return nil, domain.ErrInvalidInput
		}
		medicine.MinStockLevel = *in.MinStockLevel
	}
	medicine.UpdatedAt = time.Now()
	if err := uc.repo.Update(medicine); err != nil {
		return nil, err
	}
	return toMedicineResponse(medicine), nil
}

// List lista medicamentos con búsqueda por nombre y paginación.
func (uc *MedicineUseCase) List(search string, limit, offset int) (*dto.MedicineListResponse, error) {
	list, err := uc.repo.List(search, limit, offset)
	if err != nil {
		return nil, err
	}
	resp := &dto.MedicineListResponse{Page: dto.PageResponse{Limit: limit, Offset: offset, Total: len(list)}}
	for _, m := range list {
		resp.Medicines = append(resp.Medicines, *toMedicineResponse(m))
	}
	return resp, nil
}

// Delete elimina un medicamento del catálogo. Se rechaza con ErrConflict si
// tiene lotes registrados: los lotes nunca se borran y no pueden quedar
// huérfanos de su medicamento.
func (uc *MedicineUseCase) Delete(id string) error {
	medicine, err := uc.repo.GetByID(id)
	if err != nil {
		return err
	}
	if medicine == nil {
		return domain.ErrMedicineNotFound
	}
	batches, err := uc.batchRepo.ListByMedicine(id)
	if err != nil {
		return err
	}
	if len(batches) > 0 {
		return domain.ErrConflict
	}
	return uc.repo.Delete(id)
}

func toMedicineResponse(m *entity.Medicine) *dto.MedicineResponse {
	return &dto.MedicineResponse{
		ID:            m.ID,
		Name:          m.Name,
		GenericName:   m.GenericName,
		Category:      m.Category,
		Unit:          m.Unit,
		Price:         m.Price,
		MinStockLevel: m.MinStockLevel,
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}
}
