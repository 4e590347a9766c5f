package address

const addressColumns = `id, customer_id, address_details, city, state, pin_code, is_primary, created_at`

const getAddressesByCustomerSQL = `
SELECT ` + addressColumns + `
FROM addresses
WHERE customer_id = ?
ORDER BY id
`

const getAddressSQL = `
SELECT ` + addressColumns + `
FROM addresses
WHERE id = ?
`

const searchAddressesSQL = `
SELECT ` + addressColumns + `
FROM addresses
`

const createAddressSQL = `
INSERT INTO addresses (
    customer_id, address_details, city, state, pin_code, is_primary
) VALUES (?, ?, ?, ?, ?, ?)
`

const updateAddressSQL = `
UPDATE addresses
SET address_details = ?, city = ?, state = ?, pin_code = ?, is_primary = ?
WHERE id = ?
`

const deleteAddressSQL = `
DELETE FROM addresses
WHERE id = ?
`
