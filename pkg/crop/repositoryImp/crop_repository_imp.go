package repositoryImp

import (
	"errors"
	"sync"

	"gorm.io/gorm"

	"greenhouse/entities"
	"greenhouse/pkg/crop/repository"
)

type patch struct {
	contract string
	status   entities.Status
	seq      uint64
}

type cropRepo struct {
	db *gorm.DB

	// mu orders mirror swaps against status patches.
	mu      sync.Mutex
	seq     uint64
	patches map[string]patch
}

func New(db *gorm.DB) repository.CropRepository {
	return &cropRepo{db: db, patches: map[string]patch{}}
}

func patchKey(contract, id string) string { return contract + "/" + id }

func (r *cropRepo) Begin() repository.Mark {
	r.mu.Lock()
	defer r.mu.Unlock()
	return repository.Mark(r.seq)
}

// Replace swaps the whole mirror for a fresh directory read.
func (r *cropRepo) Replace(contract string, m repository.Mark, crops []entities.Crop) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	rows := make([]entities.Crop, len(crops))
	copy(rows, crops)
	for i := range rows {
		rows[i].Contract = contract
		rows[i].Position = i
		if p, ok := r.patches[patchKey(contract, rows[i].CropID)]; ok && p.seq > uint64(m) {
			rows[i].SetStatus(p.status)
		}
	}
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&entities.Crop{}).Error; err != nil {
			return err
		}
		if len(rows) == 0 {
			return nil
		}
		return tx.Create(&rows).Error
	})
	if err != nil {
		return err
	}
	for k, p := range r.patches {
		if p.contract != contract || p.seq <= uint64(m) {
			delete(r.patches, k)
		}
	}
	return nil
}

func (r *cropRepo) Clear() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.patches = map[string]patch{}
	return r.db.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&entities.Crop{}).Error
}

func (r *cropRepo) List(contract string) ([]entities.Crop, error) {
	out := []entities.Crop{}
	if err := r.db.Where("contract = ?", contract).Order("position ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *cropRepo) FindByID(contract, id string) (*entities.Crop, error) {
	var c entities.Crop
	if err := r.db.Where("contract = ? AND crop_id = ?", contract, id).First(&c).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

func (r *cropRepo) UpdateStatus(contract, id string, status entities.Status) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	res := r.db.Model(&entities.Crop{}).Where("contract = ? AND crop_id = ?", contract, id).
		Updates(map[string]any{"status": int(status), "status_label": status.Label()})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repository.ErrNotFound
	}
	r.seq++
	r.patches[patchKey(contract, id)] = patch{contract: contract, status: status, seq: r.seq}
	return nil
}
