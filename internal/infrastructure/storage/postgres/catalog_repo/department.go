package catalog_repo

import (
	"restock/internal/domain/catalogs/department"
	"restock/internal/infrastructure/storage/postgres"
)

const departmentTable = "cat_departments"

// DepartmentRepo implements department.Repository.
type DepartmentRepo struct {
	*BaseCatalogRepo[*department.Department]
}

var _ department.Repository = (*DepartmentRepo)(nil)

func NewDepartmentRepo(txManager *postgres.TxManager) *DepartmentRepo {
	return &DepartmentRepo{
		BaseCatalogRepo: NewBaseCatalogRepo(
			txManager,
			departmentTable,
			postgres.ExtractDBColumns[department.Department](),
			func() *department.Department { return &department.Department{} },
		),
	}
}
