package api

// Form tags mirror the JSON names so browser form posts bind the same fields

type Neighborhood struct {
	ID       int64  `json:"id,omitempty"`
	Name     string `json:"nome" form:"nome"`
	City     string `json:"cidade" form:"cidade"`
	State    string `json:"estado" form:"estado"`
	ZipStart string `json:"cep_inicial" form:"cep_inicial"`
	ZipEnd   string `json:"cep_final" form:"cep_final"`
}

type PropertyType struct {
	ID          int64  `json:"id,omitempty"`
	Name        string `json:"nome" form:"nome"`
	Description string `json:"descricao" form:"descricao"`
}

type User struct {
	ID       int64  `json:"id,omitempty"`
	Name     string `json:"nome" form:"nome"`
	Email    string `json:"email" form:"email"`
	Password string `json:"senha,omitempty" form:"senha"`
	Role     string `json:"tipo" form:"tipo"`
}

// Owner is the trimmed down user the backend nests inside a property
type Owner struct {
	ID    int64  `json:"id"`
	Name  string `json:"nome"`
	Email string `json:"email,omitempty"`
}

type Property struct {
	ID             int64    `json:"id,omitempty"`
	Title          string   `json:"titulo" form:"titulo"`
	Description    string   `json:"descricao" form:"descricao"`
	SalePrice      *float64 `json:"preco_venda" form:"preco_venda"`
	RentPrice      *float64 `json:"preco_aluguel" form:"preco_aluguel"`
	Purpose        string   `json:"finalidade" form:"finalidade"`
	Status         string   `json:"status" form:"status"`
	Bedrooms       int      `json:"dormitorios" form:"dormitorios"`
	Bathrooms      int      `json:"banheiros" form:"banheiros"`
	ParkingSpots   int      `json:"garagem" form:"garagem"`
	TotalArea      *float64 `json:"area_total" form:"area_total"`
	BuiltArea      *float64 `json:"area_construida" form:"area_construida"`
	Street         string   `json:"endereco" form:"endereco"`
	Number         string   `json:"numero" form:"numero"`
	Complement     string   `json:"complemento" form:"complemento"`
	Zip            string   `json:"cep" form:"cep"`
	Features       string   `json:"caracteristicas" form:"caracteristicas"`
	Featured       bool     `json:"destaque" form:"destaque"`
	PropertyTypeID *int64   `json:"tipoImovelId,omitempty" form:"tipoImovelId"`
	NeighborhoodID *int64   `json:"bairroId,omitempty" form:"bairroId"`
	// UserID is the owner as the backend expects it on writes
	UserID int64 `json:"usuarioId,omitempty" form:"usuarioId"`

	// Only present on reads
	ListedByID   int64         `json:"id_usuario,omitempty"`
	Owner        *Owner        `json:"usuario,omitempty"`
	Neighborhood *Neighborhood `json:"bairro,omitempty"`
	PropertyType *PropertyType `json:"tipoImovel,omitempty"`
}

// OwnerID is whoever the backend says the property belongs to, zero if it didn't say
func (p Property) OwnerID() int64 {
	switch {
	case p.Owner != nil:
		return p.Owner.ID
	case p.ListedByID != 0:
		return p.ListedByID
	}
	return p.UserID
}

// ForWrite strips the read-only fields so a bound or fetched property can be sent back
func (p Property) ForWrite() Property {
	p.ListedByID = 0
	p.Owner = nil
	p.Neighborhood = nil
	p.PropertyType = nil
	return p
}

type Photo struct {
	ID         int64  `json:"id,omitempty"`
	PropertyID int64  `json:"imovelId"`
	FileName   string `json:"nome_arquivo,omitempty"`
	Path       string `json:"caminho,omitempty"`
	Cover      bool   `json:"capa"`
	Order      int    `json:"ordem"`
}
