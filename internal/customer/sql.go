package customer

const customerColumns = `id, first_name, last_name, phone_number, email, created_at`

const listCustomersSQL = `
SELECT ` + customerColumns + `
FROM customers
`

const countCustomersSQL = `
SELECT COUNT(*)
FROM customers
`

const getCustomerSQL = `
SELECT ` + customerColumns + `
FROM customers
WHERE id = ?
`

const createCustomerSQL = `
INSERT INTO customers (
    first_name, last_name, phone_number, email
) VALUES (?, ?, ?, ?)
`

const updateCustomerSQL = `
UPDATE customers
SET first_name = ?, last_name = ?, phone_number = ?, email = ?
WHERE id = ?
`

const deleteCustomerSQL = `
DELETE FROM customers
WHERE id = ?
`

const searchClause = `(first_name LIKE ? ESCAPE '\' OR last_name LIKE ? ESCAPE '\' OR email LIKE ? ESCAPE '\' OR phone_number LIKE ? ESCAPE '\')`

const addressExistsClause = `EXISTS (
    SELECT 1 FROM addresses a
    WHERE a.customer_id = customers.id AND %s
)`
